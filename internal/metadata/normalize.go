package metadata

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zenone/crate/internal/musickey"
)

var (
	// yearPattern extracts the year from values like "2023" or "2023-05-15".
	yearPattern = regexp.MustCompile(`\d{4}`)

	// trailingParenPattern captures a trailing "(...)" suffix on a title.
	trailingParenPattern = regexp.MustCompile(`^(.*\S)\s*\(([^()]+)\)\s*$`)

	// mixWordPattern decides whether a parenthetical names a mix variant
	// rather than, say, a featured artist.
	mixWordPattern = regexp.MustCompile(`(?i)\b(mix|remix|edit|dub|version|rework|flip|vip|bootleg|instrumental|remaster(?:ed)?)\b`)

	// leadingIntPattern pulls the track number out of "5" or "5/12".
	leadingIntPattern = regexp.MustCompile(`^\d+`)
)

// Normalize converts raw tag key/values into a Record.
//
// Recognized raw keys are "artist", "title", "album", "year", "label",
// "bpm", "key", "mix", and "track" (the shape internal/tags produces).
// Empty and unrecognized values simply yield absent fields.
func Normalize(raw map[string]string) Record {
	fields := make(map[Field]string, len(raw))

	set := func(f Field, v string) {
		v = strings.TrimSpace(v)
		if v != "" {
			fields[f] = v
		}
	}

	set(FieldArtist, raw["artist"])
	set(FieldAlbum, raw["album"])
	set(FieldLabel, raw["label"])
	set(FieldYear, normalizeYear(raw["year"]))
	set(FieldBPM, normalizeBPM(raw["bpm"]))
	set(FieldTrack, normalizeTrack(raw["track"]))

	if key, ok := musickey.Parse(raw["key"]); ok {
		fields[FieldKey] = key.Name
		fields[FieldCamelot] = key.Camelot
	}

	title, mix := splitMixSuffix(raw["title"])
	if explicit := strings.TrimSpace(raw["mix"]); explicit != "" {
		mix = explicit
	}
	set(FieldTitle, title)
	set(FieldMix, mix)

	return Record{fields: fields}
}

// normalizeYear reduces a date-like value to its four-digit year.
func normalizeYear(v string) string {
	return yearPattern.FindString(v)
}

// normalizeBPM rounds a numeric BPM value to a whole number ("123.97"
// becomes "124"). Non-numeric values are dropped.
func normalizeBPM(v string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return ""
	}
	return strconv.Itoa(int(math.Round(f)))
}

// normalizeTrack keeps the position part of "5/12" style values,
// zero-padded to two digits.
func normalizeTrack(v string) string {
	digits := leadingIntPattern.FindString(strings.TrimSpace(v))
	if digits == "" {
		return ""
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return ""
	}
	return fmt.Sprintf("%02d", n)
}

// splitMixSuffix separates a trailing mix parenthetical from a title.
// "One More (Extended Mix)" yields ("One More", "Extended Mix");
// "One More (feat. X)" is left alone because the suffix is not a mix name.
func splitMixSuffix(title string) (string, string) {
	title = strings.TrimSpace(title)
	m := trailingParenPattern.FindStringSubmatch(title)
	if m == nil || !mixWordPattern.MatchString(m[2]) {
		return title, ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}
