package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zenone/crate/internal/metadata"
	"github.com/zenone/crate/internal/playlist"
	"github.com/zenone/crate/internal/tags"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outFlag string
	var extended bool

	cmd := &cobra.Command{
		Use:   "playlist [dir]",
		Short: "Write a playlist of the audio files in a crate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.currentSettings()
			if err != nil {
				return err
			}
			format, err := playlist.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			files, err := settings.ToScanner().Scan(cmd.Context(), absDir, settings.Recursive)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no audio files found under %s", absDir)
			}

			reader := tags.Reader{}
			entries := make([]playlist.Entry, 0, len(files))
			for _, f := range files {
				rel, err := filepath.Rel(absDir, f)
				if err != nil {
					rel = filepath.Base(f)
				}
				entry := playlist.Entry{Path: filepath.ToSlash(rel)}
				if raw, err := reader.ReadRaw(f); err == nil {
					rec := metadata.Normalize(raw)
					entry.Artist, _ = rec.Get(metadata.FieldArtist)
					entry.Title, _ = rec.Get(metadata.FieldTitle)
					entry.Album, _ = rec.Get(metadata.FieldAlbum)
				}
				entries = append(entries, entry)
			}

			target := strings.TrimSpace(outFlag)
			if target == "" {
				target = filepath.Join(absDir, filepath.Base(absDir)+format.Ext())
			}

			content := playlist.NewWriter(format, extended).Render(filepath.Base(absDir), entries)
			if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write playlist: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d-track playlist to %s\n", len(entries), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "m3u", "Playlist format: m3u, pls, wpl, zpl")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Destination path (defaults to <dir>/<dirname>.<ext>)")
	cmd.Flags().BoolVar(&extended, "extended", true, "Write #EXTINF lines (m3u only)")
	return cmd
}
