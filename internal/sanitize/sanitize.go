// Package sanitize maps expanded template strings to filesystem-safe
// filenames.
//
// The mapping is deterministic: characters that are illegal on common
// filesystems and control characters become underscores, whitespace
// runs collapse to single spaces, separator characters are trimmed from
// the ends of the stem, Unicode is NFC-normalized (non-ASCII letters
// survive untouched), and overlong stems are truncated on a rune
// boundary with the extension preserved.
package sanitize

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxStem bounds the filename stem, in bytes, before the
// extension. Long enough for verbose mix titles, short enough to stay
// clear of path-length limits once a directory prefix is added.
const DefaultMaxStem = 140

var (
	// invalidChars matches characters rejected by at least one common
	// filesystem, plus control characters.
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// separatorCutset holds the characters trimmed from stem boundaries.
// Trailing dots are included; Windows rejects names ending with them.
const separatorCutset = " .-_"

// FileName makes name safe to create on disk. maxStem bounds the stem
// length in bytes; values <= 0 mean DefaultMaxStem. The extension,
// when present, is preserved through truncation. A name that sanitizes
// down to nothing but its extension yields the empty string.
func FileName(name string, maxStem int) string {
	if maxStem <= 0 {
		maxStem = DefaultMaxStem
	}

	name = norm.NFC.String(name)
	name = whitespaceRuns.ReplaceAllString(name, " ")
	name = invalidChars.ReplaceAllString(name, "_")

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	stem = strings.Trim(stem, separatorCutset)
	stem = truncate(stem, maxStem)
	// Truncation can expose a fresh trailing separator.
	stem = strings.TrimRight(stem, separatorCutset)

	if stem == "" {
		return ""
	}
	return stem + ext
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
