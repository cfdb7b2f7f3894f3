package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cloudprobe/cloudprobe/internal/provisioning/inventory"
	"github.com/cloudprobe/cloudprobe/internal/util/naming"
)

// RenderListing renders an account snapshot as one table per resource kind.
func RenderListing(region string, l *inventory.Listing) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Resources in " + region))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render(fmt.Sprintf("  Instances (%d)", len(l.Instances))))
	b.WriteString("\n")
	if len(l.Instances) > 0 {
		t := newListTable("ID", "STATE", "TYPE", "LAUNCHED")
		for _, inst := range l.Instances {
			launched := ""
			if !inst.LaunchTime.IsZero() {
				launched = inst.LaunchTime.Format("2006-01-02 15:04")
			}
			t.Row(inst.ID, inst.State, inst.Type, launched)
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("  Buckets (%d)", len(l.Buckets))))
	b.WriteString("\n")
	if len(l.Buckets) > 0 {
		t := newListTable("NAME")
		for _, name := range l.Buckets {
			t.Row(name)
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("  Queues (%d)", len(l.Queues))))
	b.WriteString("\n")
	if len(l.Queues) > 0 {
		t := newListTable("NAME", "URL")
		for _, url := range l.Queues {
			t.Row(naming.QueueNameFromURL(url), url)
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	return b.String()
}

func newListTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		})
}
