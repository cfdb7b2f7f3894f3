package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloudprobe/cloudprobe/internal/provisioning"
)

// RunFunc runs a lifecycle, reporting through observer.
type RunFunc func(ctx context.Context, observer provisioning.Observer) (*provisioning.Report, error)

type runResult struct {
	report *provisioning.Report
	err    error
}

// RunLifecycleTUI wraps a lifecycle run with a Bubble Tea dashboard.
// The run executes in a background goroutine. Quitting the dashboard
// cancels the run and waits for its cleanup phases to finish.
func RunLifecycleTUI(
	ctx context.Context,
	run RunFunc,
	region string,
	phases []string,
	timings map[string]int,
) (*provisioning.Report, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewRunModel(region, phases, timings)
	p := tea.NewProgram(m, tea.WithAltScreen())

	results := make(chan runResult, 1)
	go func() {
		report, err := run(runCtx, NewProgramObserver(p))
		results <- runResult{report: report, err: err}
		p.Send(DoneMsg{Report: report, Err: err})
	}()

	finalModel, tuiErr := p.Run()

	// Interrupts the run if the dashboard was closed early; a finished run
	// is unaffected.
	cancel()
	res := <-results

	if tuiErr != nil {
		return res.report, fmt.Errorf("TUI error: %w", tuiErr)
	}
	if fm, ok := finalModel.(Model); ok && fm.Interrupted && res.err == nil {
		return res.report, context.Canceled
	}
	return res.report, res.err
}
