package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable wait, poll and timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	AfterCreateDelay   time.Duration // Fixed delay after creation (sleep strategy)
	BeforeCleanupDelay time.Duration // Fixed delay before cleanup (sleep strategy)
	AfterCleanupDelay  time.Duration // Fixed delay after cleanup (sleep strategy)

	ReadinessAttempts int           // Maximum readiness checks per resource (poll strategy)
	ReadinessInterval time.Duration // Delay between readiness checks (poll strategy)

	QueueDeletionAttempts int           // Maximum queue listings while confirming deletion
	QueueDeletionInterval time.Duration // Delay between queue listings

	APICall time.Duration // Timeout for a single provider API call

	Cleanup time.Duration // Bound on cleanup phases that run after an interrupt
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - CLOUDPROBE_DELAY_AFTER_CREATE (default: 60s)
//   - CLOUDPROBE_DELAY_BEFORE_CLEANUP (default: 10s)
//   - CLOUDPROBE_DELAY_AFTER_CLEANUP (default: 40s)
//   - CLOUDPROBE_READINESS_ATTEMPTS (default: 24)
//   - CLOUDPROBE_READINESS_INTERVAL (default: 5s)
//   - CLOUDPROBE_QUEUE_DELETE_ATTEMPTS (default: 10)
//   - CLOUDPROBE_QUEUE_DELETE_INTERVAL (default: 3s)
//   - CLOUDPROBE_TIMEOUT_API_CALL (default: 30s)
//   - CLOUDPROBE_TIMEOUT_CLEANUP (default: 5m)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		AfterCreateDelay:      parseDuration("CLOUDPROBE_DELAY_AFTER_CREATE", 60*time.Second),
		BeforeCleanupDelay:    parseDuration("CLOUDPROBE_DELAY_BEFORE_CLEANUP", 10*time.Second),
		AfterCleanupDelay:     parseDuration("CLOUDPROBE_DELAY_AFTER_CLEANUP", 40*time.Second),
		ReadinessAttempts:     parseInt("CLOUDPROBE_READINESS_ATTEMPTS", 24),
		ReadinessInterval:     parseDuration("CLOUDPROBE_READINESS_INTERVAL", 5*time.Second),
		QueueDeletionAttempts: parseInt("CLOUDPROBE_QUEUE_DELETE_ATTEMPTS", 10),
		QueueDeletionInterval: parseDuration("CLOUDPROBE_QUEUE_DELETE_INTERVAL", 3*time.Second),
		APICall:               parseDuration("CLOUDPROBE_TIMEOUT_API_CALL", 30*time.Second),
		Cleanup:               parseDuration("CLOUDPROBE_TIMEOUT_CLEANUP", 5*time.Minute),
	}
}

// TestTimeouts returns timeouts suitable for unit tests: no fixed delays,
// few attempts and millisecond intervals.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		ReadinessAttempts:     3,
		ReadinessInterval:     time.Millisecond,
		QueueDeletionAttempts: 3,
		QueueDeletionInterval: time.Millisecond,
		APICall:               5 * time.Second,
		Cleanup:               10 * time.Second,
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parseInt parses a positive integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}

	return i
}
