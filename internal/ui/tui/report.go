package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cloudprobe/cloudprobe/internal/provisioning"
)

// RenderReport renders the steps of a run as a table followed by a
// one-line summary.
func RenderReport(report *provisioning.Report) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("PHASE", "STEP", "STATUS", "TIME", "DETAIL").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		})

	for _, s := range report.Steps() {
		detail := ""
		if s.Err != nil {
			detail = truncate(s.Err.Error(), 72)
		}
		t.Row(s.Phase, s.Name, statusLabel(s.Status), formatStepDuration(s.Duration), detail)
	}

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")

	summary := fmt.Sprintf("Run %s finished in %s: %s", report.RunID, formatDuration(report.Duration()), report.Summary())
	if report.Failed() {
		b.WriteString(failedStyle.Render(summary))
	} else {
		b.WriteString(readyStyle.Render(summary))
	}
	b.WriteString("\n")
	return b.String()
}

func statusLabel(status provisioning.StepStatus) string {
	switch status {
	case provisioning.StatusOK:
		return readyStyle.Render(checkMark + " ok")
	case provisioning.StatusWarning:
		return warningStyle.Render(warnMark + " warning")
	case provisioning.StatusFailed:
		return failedStyle.Render(crossMark + " failed")
	default:
		return dimStyle.Render(skipMark + " skipped")
	}
}

func formatStepDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return formatDuration(d)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", "; ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
