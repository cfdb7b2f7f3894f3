package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// SleepRecorder replaces fixed delays in tests and records them.
type SleepRecorder struct {
	mu        sync.Mutex
	durations []time.Duration
}

// Sleep records d and returns immediately.
func (r *SleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.durations = append(r.durations, d)
	r.mu.Unlock()
	return ctx.Err()
}

// Durations returns every recorded delay in order.
func (r *SleepRecorder) Durations() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.durations...)
}

// NewLifecycleContext builds a provisioning context with test timeouts, a
// recording observer and a SleepRecorder in place of real delays.
func NewLifecycleContext(t *testing.T, cfg *config.Config, cloud awscloud.CloudManager) (*provisioning.Context, *MemoryObserver) {
	t.Helper()
	if cfg == nil {
		cfg = MinimalConfig()
	}
	observer := NewMemoryObserver()
	ctx := provisioning.NewContext(TestContext(t), cfg, cloud, observer)
	ctx.Timeouts = config.TestTimeouts()
	ctx.Sleep = (&SleepRecorder{}).Sleep
	return ctx, observer
}

// StepsNamed returns the recorded steps with the given name.
func StepsNamed(report *provisioning.Report, name string) []provisioning.Step {
	var out []provisioning.Step
	for _, s := range report.Steps() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// StepStatus returns the status of the first step with the given name, or
// the empty status if it was never recorded.
func StepStatus(report *provisioning.Report, name string) provisioning.StepStatus {
	steps := StepsNamed(report, name)
	if len(steps) == 0 {
		return ""
	}
	return steps[0].Status
}
