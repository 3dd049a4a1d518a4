package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var files []string
	var yes bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rename [dir]",
		Short: "Rename audio files from their embedded tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.engine()
			if err != nil {
				return err
			}
			req, err := ctx.request(args, files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			configureColor(out)

			if dryRun {
				status, err := eng.Preview(cmd.Context(), req)
				if err != nil {
					return err
				}
				printResults(out, status.Results)
				fmt.Fprintln(out, summaryLine(status, true))
				return nil
			}

			stdin := bufio.NewReader(cmd.InOrStdin())

			if !yes {
				plan, err := eng.Preview(cmd.Context(), req)
				if err != nil {
					return err
				}
				if plan.Renamed == 0 {
					printResults(out, plan.Results)
					fmt.Fprintln(out, "Nothing to rename")
					return nil
				}
				fmt.Fprintln(out, renderPlan(plan))
				if !confirm(stdin, out, fmt.Sprintf("Rename %d file(s)?", plan.Renamed)) {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			status, err := eng.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			printResults(out, status.Results)
			fmt.Fprintln(out, summaryLine(status, false))

			// The one-shot undo window closes when this process exits,
			// so the interactive flow offers it right away.
			if status.UndoSessionID != "" && !yes {
				if confirm(stdin, out, "Undo these renames?") {
					res, err := eng.Undo(status.UndoSessionID)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Restored %d of %d file(s)\n", res.Restored, res.Total)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&files, "file", nil, "Limit the batch to specific files (repeatable)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the batch without renaming anything")
	return cmd
}

func confirm(in *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
