package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderPhases(&b, m)

	if len(m.Failures) > 0 || len(m.Warnings) > 0 {
		renderProblems(&b, m)
	}
	if len(m.Log) > 0 {
		renderLog(&b, m)
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := "cloudprobe"
	if m.RunID != "" {
		title += ": " + m.RunID
	}
	if m.Region != "" {
		title += fmt.Sprintf(" (%s)", m.Region)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render("Failed")
	case m.Done:
		status += readyStyle.Render("Complete")
	case m.Interrupted:
		status += warningStyle.Render("Interrupted, cleaning up")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + dimStyle.Render("Running")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = max(m.Width-30, 10)
	}
	filled := min(int(float64(barWidth)*progress), barWidth)

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	pct := int(progress * 100)
	eta := ""
	if m.EstimatedRemaining > 0 {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d%%%s\n", bar, pct, eta)
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Phases"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		icon, style := phaseIcon(phase.Status, m.SpinnerFrame)

		extra := ""
		switch phase.Status {
		case PhaseActive:
			if phase.Total > 0 {
				extra = dimStyle.Render(fmt.Sprintf("attempt %d/%d", phase.Current, phase.Total))
			} else if phase.Detail != "" {
				extra = dimStyle.Render(phase.Detail)
			}
		case PhaseDone, PhaseFailed:
			if !phase.StartedAt.IsZero() && !phase.EndedAt.IsZero() {
				extra = dimStyle.Render(formatDuration(phase.EndedAt.Sub(phase.StartedAt)))
			}
		case PhaseSkipped:
			extra = dimStyle.Render(phase.Detail)
		}

		fmt.Fprintf(b, "    %s %-22s %s\n", style(icon), style(phase.Name), extra)
	}
}

func renderProblems(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Problems"))
	b.WriteString("\n")

	for _, msg := range lastN(m.Failures, 3) {
		fmt.Fprintf(b, "    %s %s\n", failedStyle.Render(crossMark), dimStyle.Render(msg))
	}
	for _, msg := range lastN(m.Warnings, 3) {
		fmt.Fprintf(b, "    %s %s\n", warningStyle.Render(warnMark), dimStyle.Render(msg))
	}
}

func renderLog(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Output"))
	b.WriteString("\n")

	for _, line := range m.Log {
		fmt.Fprintf(b, "    %s\n", dimStyle.Render(line))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	parts := []string{fmt.Sprintf("elapsed: %s", elapsed)}
	if m.Report != nil {
		parts = append(parts, m.Report.Summary())
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s  |  q: quit", strings.Join(parts, "  |  "))))
	b.WriteString("\n")
}

// Helper functions

func phaseIcon(status PhaseStatus, frame int) (string, styleFunc) {
	switch status {
	case PhaseDone:
		return checkMark, sf(readyStyle)
	case PhaseFailed:
		return crossMark, sf(failedStyle)
	case PhaseActive:
		return currentSpinner(frame), sf(activeStyle)
	case PhaseSkipped:
		return skipMark, sf(dimStyle)
	default:
		return pending, sf(dimStyle)
	}
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}
	if len(m.Phases) == 0 {
		return 0
	}
	finished := 0
	for _, p := range m.Phases {
		switch p.Status {
		case PhaseDone, PhaseFailed, PhaseSkipped:
			finished++
		}
	}
	return float64(finished) / float64(len(m.Phases))
}

func lastN(items []string, n int) []string {
	if len(items) > n {
		return items[len(items)-n:]
	}
	return items
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
