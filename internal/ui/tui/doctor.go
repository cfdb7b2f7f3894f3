package tui

import (
	"fmt"
	"strings"
)

// CheckStatus is the outcome of one preflight check.
type CheckStatus int

// Preflight check outcomes.
const (
	CheckPassed CheckStatus = iota
	CheckWarning
	CheckFailed
)

// Check is the result of one preflight check.
type Check struct {
	Name   string
	Status CheckStatus
	Detail string
}

// RenderDoctor renders preflight check results once using lipgloss.
func RenderDoctor(title string, checks []Check) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Checks"))
	b.WriteString("\n")

	failed := 0
	for _, c := range checks {
		var icon string
		var style styleFunc
		switch c.Status {
		case CheckPassed:
			icon, style = checkMark, sf(readyStyle)
		case CheckWarning:
			icon, style = warnMark, sf(warningStyle)
		default:
			icon, style = crossMark, sf(failedStyle)
			failed++
		}
		fmt.Fprintf(&b, "    %s %-20s %s\n", style(icon), style(c.Name), dimStyle.Render(c.Detail))
	}

	if failed > 0 {
		b.WriteString(footerStyle.Render(fmt.Sprintf("  %d check(s) failed", failed)))
	} else {
		b.WriteString(footerStyle.Render("  all checks passed"))
	}
	b.WriteString("\n")
	return b.String()
}
