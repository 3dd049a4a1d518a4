package main

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/zenone/crate/internal/renamer"
)

// renderPlan lays out a batch's per-file decisions as a table, one row
// per processed file in discovery order.
func renderPlan(status *renamer.Status) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "New Name", "Note"})

	for _, res := range status.Results {
		newName := ""
		note := ""
		switch res.Status {
		case renamer.StatusRenamed:
			newName = filepath.Base(res.Destination)
		case renamer.StatusSkipped:
			note = res.Message
		case renamer.StatusError:
			note = res.Message
		}
		tw.AppendRow(table.Row{filepath.Base(res.Source), newName, note})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

// summaryLine condenses a batch status into one sentence.
func summaryLine(status *renamer.Status, preview bool) string {
	verb := "Renamed"
	if preview {
		verb = "Would rename"
	}
	line := fmt.Sprintf("%s %d of %d file(s), skipped %d, %d error(s)",
		verb, status.Renamed, status.Total, status.Skipped, status.Errors)
	if status.Cancelled {
		line += " (cancelled)"
	}
	return line
}
