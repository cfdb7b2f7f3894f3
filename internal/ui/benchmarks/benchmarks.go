// Package benchmarks provides timing estimates for lifecycle phases.
package benchmarks

import (
	"time"
)

// DefaultTimings are typical phase durations in seconds for the poll
// strategy against us-east-2.
var DefaultTimings = map[string]int{
	"create":              4,
	"wait after-create":   25,
	"list":                2,
	"exercise":            3,
	"wait before-cleanup": 1,
	"destroy":             4,
	"confirm":             6,
	"wait after-cleanup":  20,
	"verify":              2,
}

// PhaseOrder defines the sequence of lifecycle phases for ETA calculation.
var PhaseOrder = []string{
	"create",
	"wait after-create",
	"list",
	"exercise",
	"wait before-cleanup",
	"destroy",
	"confirm",
	"wait after-cleanup",
	"verify",
}

// PhaseRecord is the observed timing of one phase. EndedAt is zero while
// the phase runs.
type PhaseRecord struct {
	Phase     string
	StartedAt time.Time
	EndedAt   time.Time
}

// Ended reports whether the phase has finished.
func (r PhaseRecord) Ended() bool {
	return !r.EndedAt.IsZero()
}

// WithFixedDelays returns timings where the wait phases take the given
// fixed delays, as with the sleep strategy.
func WithFixedDelays(afterCreate, beforeCleanup, afterCleanup time.Duration) map[string]int {
	timings := make(map[string]int, len(DefaultTimings))
	for k, v := range DefaultTimings {
		timings[k] = v
	}
	timings["wait after-create"] = int(afterCreate.Seconds())
	timings["wait before-cleanup"] = int(beforeCleanup.Seconds())
	timings["wait after-cleanup"] = int(afterCleanup.Seconds())
	return timings
}

// EstimateRemaining calculates the estimated time remaining based on
// current phase, elapsed time, and historical phase records.
func EstimateRemaining(timings map[string]int, currentPhase string, phaseElapsed time.Duration, history []PhaseRecord) time.Duration {
	return EstimateRemainingWithScale(timings, currentPhase, phaseElapsed, history, PerformanceScale(timings, currentPhase, phaseElapsed, history))
}

// EstimateRemainingWithScale calculates ETA while applying a performance scale factor.
func EstimateRemainingWithScale(
	timings map[string]int,
	currentPhase string,
	phaseElapsed time.Duration,
	history []PhaseRecord,
	scale float64,
) time.Duration {
	var remaining time.Duration

	currentIdx := -1
	for i, p := range PhaseOrder {
		if p == currentPhase {
			currentIdx = i
			break
		}
	}
	if currentIdx < 0 {
		return 0
	}

	// For the current phase: max(0, expected - elapsed)
	if expected, ok := timings[currentPhase]; ok {
		expectedDur := time.Duration(float64(time.Duration(expected)*time.Second) * scale)
		if expectedDur > phaseElapsed {
			remaining += expectedDur - phaseElapsed
		}
	}

	completedPhases := make(map[string]bool)
	for _, rec := range history {
		if rec.Ended() {
			completedPhases[rec.Phase] = true
		}
	}

	for i := currentIdx + 1; i < len(PhaseOrder); i++ {
		phase := PhaseOrder[i]
		if completedPhases[phase] {
			continue
		}
		if expected, ok := timings[phase]; ok {
			remaining += time.Duration(float64(time.Duration(expected)*time.Second) * scale)
		}
	}

	return remaining
}

// PerformanceScale derives a speed multiplier from observed-vs-expected durations.
// Example: expected 10s, observed 15s => scale=1.5 (future ETAs are stretched by 50%).
// Phases with no expected duration are ignored.
func PerformanceScale(timings map[string]int, currentPhase string, phaseElapsed time.Duration, history []PhaseRecord) float64 {
	var expectedTotal time.Duration
	var actualTotal time.Duration

	for _, rec := range history {
		expectedSecs, ok := timings[rec.Phase]
		if !ok || expectedSecs == 0 || !rec.Ended() {
			continue
		}
		expectedTotal += time.Duration(expectedSecs) * time.Second
		actualTotal += rec.EndedAt.Sub(rec.StartedAt)
	}

	// If current phase is overrunning, fold it in immediately so ETA adapts quickly.
	if expectedSecs, ok := timings[currentPhase]; ok && expectedSecs > 0 && phaseElapsed > 0 {
		expectedCurrent := time.Duration(expectedSecs) * time.Second
		if phaseElapsed > expectedCurrent {
			expectedTotal += expectedCurrent
			actualTotal += phaseElapsed
		}
	}

	if expectedTotal == 0 || actualTotal == 0 {
		return 1.0
	}

	scale := float64(actualTotal) / float64(expectedTotal)
	if scale < 0.6 {
		return 0.6
	}
	if scale > 3.0 {
		return 3.0
	}
	return scale
}

// TotalEstimate returns the total estimated run time.
func TotalEstimate(timings map[string]int) time.Duration {
	var total time.Duration
	for _, phase := range PhaseOrder {
		if secs, ok := timings[phase]; ok {
			total += time.Duration(secs) * time.Second
		}
	}
	return total
}
