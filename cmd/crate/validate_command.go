package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zenone/crate/internal/template"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [template]",
		Short: "Check a naming template for unknown tokens",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tpl string
			if len(args) > 0 {
				tpl = args[0]
			} else {
				settings, err := ctx.currentSettings()
				if err != nil {
					return err
				}
				tpl = settings.DefaultTemplate
			}

			result := template.Validate(tpl)
			out := cmd.OutOrStdout()
			if result.Valid {
				fmt.Fprintf(out, "Template %q is valid\n", tpl)
				fmt.Fprintf(out, "Sample: %s\n", result.SampleExpansion)
				return nil
			}
			if len(result.InvalidTokens) > 0 {
				return fmt.Errorf("template %q has unknown tokens: %s", tpl, strings.Join(result.InvalidTokens, ", "))
			}
			return fmt.Errorf("template is empty")
		},
	}
}
