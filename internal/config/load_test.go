package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`
region: eu-central-1
profile: sandbox
instance:
  image_id: ami-0abcdef1234567890
  type: t3.micro
  key_name: my-key
bucket:
  prefix: probe
queue:
  name: probe-queue
  receive_wait: 5s
exercise:
  object_key: hello.txt
  object_content: hello
wait_strategy: sleep
failure_policy: abort
tags:
  team: infra
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "sandbox", cfg.Profile)
	assert.Equal(t, "ami-0abcdef1234567890", cfg.Instance.ImageID)
	assert.Equal(t, "t3.micro", cfg.Instance.Type)
	assert.Equal(t, "my-key", cfg.Instance.KeyName)
	assert.Equal(t, "probe", cfg.Bucket.Prefix)
	assert.Equal(t, "probe-queue.fifo", cfg.Queue.Name, "fifo suffix is appended")
	assert.Equal(t, 5*time.Second, cfg.Queue.ReceiveWait)
	assert.Equal(t, DefaultMessageGroupID, cfg.Queue.MessageGroupID)
	assert.Equal(t, "hello.txt", cfg.Exercise.ObjectKey)
	assert.Equal(t, "hello", cfg.Exercise.ObjectContent)
	assert.Equal(t, DefaultMessageBody, cfg.Exercise.MessageBody)
	assert.Equal(t, WaitStrategySleep, cfg.WaitStrategy)
	assert.Equal(t, FailurePolicyAbort, cfg.FailurePolicy)
	assert.Equal(t, map[string]string{"team": "infra"}, cfg.Tags)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("region: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}

func TestParse_ValidationError(t *testing.T) {
	_, err := Parse([]byte("wait_strategy: never\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloudprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: us-west-2\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
