package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zenone/crate/internal/artwork"
)

func newArtCommand() *cobra.Command {
	var out string
	var maxSize int

	cmd := &cobra.Command{
		Use:   "art <file>",
		Short: "Export the cover art embedded in an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			target := strings.TrimSpace(out)
			if target == "" {
				stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
				target = filepath.Join(filepath.Dir(src), stem+".jpg")
			}

			if err := artwork.Export(src, target, maxSize); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote cover art to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination path (defaults to <file>.jpg next to the source)")
	cmd.Flags().IntVar(&maxSize, "max-size", 0, "Bound both dimensions in pixels (0 keeps the original size)")
	return cmd
}
