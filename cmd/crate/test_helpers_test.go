package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2"
)

// runCLI executes the root command with a throwaway config path so the
// user's real configuration never leaks into a test.
func runCLI(t *testing.T, args []string, stdin string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	cfg := filepath.Join(t.TempDir(), "config.toml")
	cmd.SetArgs(append([]string{"--config", cfg}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTrack drops a minimal MP3 fixture with the given tags.
func writeTrack(t *testing.T, dir, name, artist, title string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("\xff\xfbaudio-bytes"), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("opening fixture %s: %v", name, err)
	}
	tag.SetArtist(artist)
	tag.SetTitle(title)
	if err := tag.Save(); err != nil {
		t.Fatalf("saving fixture %s: %v", name, err)
	}
	if err := tag.Close(); err != nil {
		t.Fatalf("closing fixture %s: %v", name, err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
