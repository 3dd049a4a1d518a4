// Package scan discovers candidate audio files under a library root.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// DefaultExtensions lists the audio container formats considered for
// renaming when a Scanner does not override them.
var DefaultExtensions = []string{".mp3", ".flac", ".wav", ".aiff", ".m4a", ".ogg"}

// Scanner enumerates audio files. The zero value accepts the default
// extension set with no include patterns.
type Scanner struct {
	// Extensions overrides DefaultExtensions when non-empty. Entries
	// include the leading dot and match case-insensitively.
	Extensions []string

	// Include holds optional doublestar patterns matched against the
	// root-relative slash path. When non-empty a file must match at
	// least one pattern to be accepted.
	Include []string
}

// Scan walks root and returns the sorted absolute paths of every file
// it accepts. Dotfiles are ignored and dot-directories are never
// descended into. With recursive false only root's immediate entries
// are considered.
func (s *Scanner) Scan(ctx context.Context, root string, recursive bool) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("scanning %s: not a directory", root)
	}

	exts := s.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = true
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := d.Name()
		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if !recursive || strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !wanted[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		ok, err := s.included(absRoot, path)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) included(root, path string) (bool, error) {
	if len(s.Include) == 0 {
		return true, nil
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false, err
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.Include {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, errors.Errorf("include pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
