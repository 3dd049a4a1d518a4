package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/zenone/crate/internal/renamer"
)

// configureColor disables ANSI colour when output is not a terminal.
func configureColor(w io.Writer) {
	color.NoColor = !isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printResults writes one line per processed file.
func printResults(w io.Writer, results []renamer.Result) {
	for _, res := range results {
		fmt.Fprintln(w, resultLine(res))
	}
}

func resultLine(res renamer.Result) string {
	name := filepath.Base(res.Source)
	switch res.Status {
	case renamer.StatusRenamed:
		return fmt.Sprintf("  %s %s → %s", color.GreenString("✓"), name, filepath.Base(res.Destination))
	case renamer.StatusSkipped:
		return fmt.Sprintf("  %s %s (%s)", color.HiBlackString("-"), name, res.Message)
	default:
		return fmt.Sprintf("  %s %s: %s", color.RedString("✗"), name, res.Message)
	}
}
