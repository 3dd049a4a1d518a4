package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag    string
		templateFlag  string
		recursiveFlag bool
		workersFlag   int
		includeFlag   []string
		verboseFlag   bool
	)

	ctx := newCommandContext(&configFlag, &templateFlag, &recursiveFlag, &workersFlag, &includeFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:           "crate",
		Short:         "Rename audio files from their embedded tags",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&templateFlag, "template", "t", "", `Naming template, e.g. "{artist} - {title}"`)
	rootCmd.PersistentFlags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Descend into subdirectories")
	rootCmd.PersistentFlags().IntVarP(&workersFlag, "workers", "w", 0, "Concurrent rename workers (0 uses the configured value)")
	rootCmd.PersistentFlags().StringArrayVar(&includeFlag, "include", nil, "Glob pattern files must match, relative to the root (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show debug logging")

	rootCmd.AddCommand(newPreviewCommand(ctx))
	rootCmd.AddCommand(newRenameCommand(ctx))
	rootCmd.AddCommand(newValidateCommand(ctx))
	rootCmd.AddCommand(newArtCommand())
	rootCmd.AddCommand(newPlaylistCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
