package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "preview [dir]",
		Short: "Show what a rename batch would do without touching any file",
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

			status, err := eng.Preview(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status.Total == 0 {
				fmt.Fprintln(out, "No audio files found")
				return nil
			}

			fmt.Fprintln(out, renderPlan(status))
			fmt.Fprintln(out, summaryLine(status, true))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&files, "file", nil, "Limit the batch to specific files (repeatable)")
	return cmd
}
