package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cloudprobe/cloudprobe/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is false, only values that differ from the defaults are written.
func WriteConfig(cfg *config.Config, outputPath string, fullOutput bool) error {
	var yamlBytes []byte
	var err error

	if fullOutput {
		yamlBytes, err = yaml.Marshal(cfg)
	} else {
		yamlBytes, err = yaml.Marshal(buildMinimalConfig(cfg))
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath, fullOutput))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// MinimalConfig represents the minimal configuration for YAML output.
// Region is always written; everything else only when it is not the default.
type MinimalConfig struct {
	Region        string            `yaml:"region"`
	Profile       string            `yaml:"profile,omitempty"`
	EndpointURL   string            `yaml:"endpoint_url,omitempty"`
	Instance      *MinimalInstance  `yaml:"instance,omitempty"`
	Bucket        *MinimalBucket    `yaml:"bucket,omitempty"`
	Queue         *MinimalQueue     `yaml:"queue,omitempty"`
	Exercise      *MinimalExercise  `yaml:"exercise,omitempty"`
	WaitStrategy  string            `yaml:"wait_strategy,omitempty"`
	FailurePolicy string            `yaml:"failure_policy,omitempty"`
	Tags          map[string]string `yaml:"tags,omitempty"`
}

// MinimalInstance contains instance settings that differ from the defaults.
type MinimalInstance struct {
	ImageID string `yaml:"image_id,omitempty"`
	Type    string `yaml:"type,omitempty"`
	KeyName string `yaml:"key_name,omitempty"`
}

// MinimalBucket contains a non-default bucket prefix.
type MinimalBucket struct {
	Prefix string `yaml:"prefix"`
}

// MinimalQueue contains queue settings that differ from the defaults.
type MinimalQueue struct {
	Name           string `yaml:"name,omitempty"`
	MessageGroupID string `yaml:"message_group_id,omitempty"`
	ReceiveWait    string `yaml:"receive_wait,omitempty"`
}

// MinimalExercise contains payload settings that differ from the defaults.
type MinimalExercise struct {
	ObjectKey     string `yaml:"object_key,omitempty"`
	ObjectContent string `yaml:"object_content,omitempty"`
	MessageBody   string `yaml:"message_body,omitempty"`
	MessageName   string `yaml:"message_name,omitempty"`
}

// buildMinimalConfig creates a minimal config from the full config.
func buildMinimalConfig(cfg *config.Config) *MinimalConfig {
	minCfg := &MinimalConfig{
		Region:      cfg.Region,
		Profile:     cfg.Profile,
		EndpointURL: cfg.EndpointURL,
		Tags:        cfg.Tags,
	}

	inst := MinimalInstance{
		ImageID: nonDefault(cfg.Instance.ImageID, config.DefaultImageID),
		Type:    nonDefault(cfg.Instance.Type, config.DefaultInstanceType),
		KeyName: cfg.Instance.KeyName,
	}
	if inst != (MinimalInstance{}) {
		minCfg.Instance = &inst
	}

	if p := nonDefault(cfg.Bucket.Prefix, config.DefaultBucketPrefix); p != "" {
		minCfg.Bucket = &MinimalBucket{Prefix: p}
	}

	queue := MinimalQueue{
		Name:           nonDefault(cfg.Queue.Name, config.DefaultQueueName),
		MessageGroupID: nonDefault(cfg.Queue.MessageGroupID, config.DefaultMessageGroupID),
	}
	if cfg.Queue.ReceiveWait > 0 {
		queue.ReceiveWait = cfg.Queue.ReceiveWait.String()
	}
	if queue != (MinimalQueue{}) {
		minCfg.Queue = &queue
	}

	exercise := MinimalExercise{
		ObjectKey:     nonDefault(cfg.Exercise.ObjectKey, config.DefaultObjectKey),
		ObjectContent: cfg.Exercise.ObjectContent,
		MessageBody:   nonDefault(cfg.Exercise.MessageBody, config.DefaultMessageBody),
		MessageName:   nonDefault(cfg.Exercise.MessageName, config.DefaultMessageName),
	}
	if exercise != (MinimalExercise{}) {
		minCfg.Exercise = &exercise
	}

	minCfg.WaitStrategy = nonDefault(string(cfg.WaitStrategy), string(config.WaitStrategySleep))
	minCfg.FailurePolicy = nonDefault(string(cfg.FailurePolicy), string(config.FailurePolicyContinue))

	return minCfg
}

func nonDefault(value, def string) string {
	if value == def {
		return ""
	}
	return value
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string, fullOutput bool) string {
	mode := "minimal"
	note := "\n# Note: This is a minimal config. Use --full flag for all options."
	if fullOutput {
		mode = "full"
		note = ""
	}
	return fmt.Sprintf(`# cloudprobe configuration
# Generated by: cloudprobe init
# Generated at: %s
# Output mode: %s%s
#
# Credentials come from the AWS default chain (environment, shared
# config/credentials files, SSO, instance role). Set "profile" to pick
# a named profile.
#
# Usage:
#   cloudprobe doctor -c %s
#   cloudprobe run -c %s
`, time.Now().Format(time.RFC3339), mode, note, outputPath, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
