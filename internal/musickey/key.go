// Package musickey converts free-form musical key strings into canonical
// key names and Camelot wheel codes.
//
// # Camelot Wheel
//
// The Camelot wheel is the DJ-community encoding for harmonic mixing: each of
// the 24 keys gets a code from 1 to 12 plus a letter, where A marks minor keys
// and B marks major keys. A relative major/minor pair shares its number, so
// 8A is A minor and 8B is C major.
//
// # Accepted Input
//
// Parse understands three families of input:
//   - wheel codes: "8A", "08a", "12B"
//   - short names: "Fm", "F#m", "Bb", "Abm"
//   - long names: "F Minor", "f-sharp minor", "E flat major"
//
// Accidentals may be written as "#", "b", "♯", "♭", or the words "sharp" and
// "flat". Enharmonic spellings collapse to one canonical entry (G#m and Abm
// are both 1A). Anything unrecognized reports ok=false; Parse never fails
// with an error.
//
// Example:
//
//	key, ok := musickey.Parse("fm")
//	// ok == true, key.Name == "Fm", key.Camelot == "4A"
package musickey

import (
	"fmt"
	"strings"
)

// Mode distinguishes the two diatonic modes the wheel covers.
type Mode int

const (
	// ModeMajor is the major (B-side) mode.
	ModeMajor Mode = iota

	// ModeMinor is the minor (A-side) mode.
	ModeMinor
)

// String returns "major" or "minor".
func (m Mode) String() string {
	if m == ModeMinor {
		return "minor"
	}
	return "major"
}

// Key is a canonical musical key.
//
// Tonic carries the canonical spelling of the root note ("Ab", "F#", "C"),
// Name the DJ short form ("Abm", "F#m", "C"), and Camelot the wheel code
// ("1A", "11A", "8B").
type Key struct {
	Tonic   string
	Mode    Mode
	Name    string
	Camelot string
}

// wheelEntry pins one of the 24 wheel positions to its canonical spelling.
type wheelEntry struct {
	number int
	mode   Mode
	tonic  string
	pitch  int // pitch class, C = 0
}

// The fixed 24-entry table, canonical spellings per the published wheel.
// Minor (A side) first, then major (B side).
var wheel = []wheelEntry{
	{1, ModeMinor, "Ab", 8},
	{2, ModeMinor, "Eb", 3},
	{3, ModeMinor, "Bb", 10},
	{4, ModeMinor, "F", 5},
	{5, ModeMinor, "C", 0},
	{6, ModeMinor, "G", 7},
	{7, ModeMinor, "D", 2},
	{8, ModeMinor, "A", 9},
	{9, ModeMinor, "E", 4},
	{10, ModeMinor, "B", 11},
	{11, ModeMinor, "F#", 6},
	{12, ModeMinor, "Db", 1},

	{1, ModeMajor, "B", 11},
	{2, ModeMajor, "F#", 6},
	{3, ModeMajor, "Db", 1},
	{4, ModeMajor, "Ab", 8},
	{5, ModeMajor, "Eb", 3},
	{6, ModeMajor, "Bb", 10},
	{7, ModeMajor, "F", 5},
	{8, ModeMajor, "C", 0},
	{9, ModeMajor, "G", 7},
	{10, ModeMajor, "D", 2},
	{11, ModeMajor, "A", 9},
	{12, ModeMajor, "E", 4},
}

type pitchMode struct {
	pitch int
	mode  Mode
}

var (
	byPitch = make(map[pitchMode]wheelEntry, len(wheel))
	byCode  = make(map[string]wheelEntry, len(wheel))
)

func init() {
	for _, e := range wheel {
		byPitch[pitchMode{e.pitch, e.mode}] = e
		byCode[e.code()] = e
	}
}

func (e wheelEntry) code() string {
	side := "B"
	if e.mode == ModeMinor {
		side = "A"
	}
	return fmt.Sprintf("%d%s", e.number, side)
}

func (e wheelEntry) key() Key {
	name := e.tonic
	if e.mode == ModeMinor {
		name += "m"
	}
	return Key{
		Tonic:   e.tonic,
		Mode:    e.mode,
		Name:    name,
		Camelot: e.code(),
	}
}

// Parse converts a raw key string into its canonical Key.
//
// Wheel-code input is detected before any name lookup, so "8A" resolves
// through the table directly instead of being misread as a note name.
// The boolean reports whether the input was recognized; unrecognized input
// is not an error, callers simply leave the key fields absent.
func Parse(raw string) (Key, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Key{}, false
	}

	if key, ok := parseWheelCode(s); ok {
		return key, true
	}
	return parseName(s)
}

// parseWheelCode matches "8A" style codes: 1-12 with an optional leading
// zero, followed by A or B in either case.
func parseWheelCode(s string) (Key, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i > 2 {
		return Key{}, false
	}

	number := 0
	for _, c := range s[:i] {
		number = number*10 + int(c-'0')
	}
	if number < 1 || number > 12 {
		return Key{}, false
	}

	rest := strings.TrimSpace(s[i:])
	if len(rest) != 1 {
		return Key{}, false
	}

	var side string
	switch rest[0] {
	case 'a', 'A':
		side = "A"
	case 'b', 'B':
		side = "B"
	default:
		return Key{}, false
	}

	entry, ok := byCode[fmt.Sprintf("%d%s", number, side)]
	if !ok {
		return Key{}, false
	}
	return entry.key(), true
}

// accidentalReplacer folds the Unicode accidental signs into their ASCII
// equivalents before parsing.
var accidentalReplacer = strings.NewReplacer("♯", "#", "♭", "b")

// parseName resolves note-name input such as "Fm", "F Minor", or "e-flat
// major" against the wheel table.
func parseName(s string) (Key, bool) {
	s = strings.ToLower(accidentalReplacer.Replace(s))

	letter := s[0]
	if letter < 'a' || letter > 'g' {
		return Key{}, false
	}

	rest := strings.TrimLeft(s[1:], " \t-_")

	accidental := 0
	switch {
	case strings.HasPrefix(rest, "#"):
		accidental = 1
		rest = rest[1:]
	case strings.HasPrefix(rest, "sharp"):
		accidental = 1
		rest = rest[len("sharp"):]
	case strings.HasPrefix(rest, "flat"):
		accidental = -1
		rest = rest[len("flat"):]
	case strings.HasPrefix(rest, "b"):
		// A lone "b" is a flat sign only when what follows is a mode word,
		// otherwise it belongs to input like "bm" (B minor).
		if _, ok := parseMode(strings.TrimLeft(rest[1:], " \t-_")); ok {
			accidental = -1
			rest = rest[1:]
		}
	}

	mode, ok := parseMode(strings.TrimLeft(rest, " \t-_"))
	if !ok {
		return Key{}, false
	}

	entry, ok := byPitch[pitchMode{pitchClass(letter, accidental), mode}]
	if !ok {
		return Key{}, false
	}
	return entry.key(), true
}

// parseMode maps a mode suffix to its Mode. An empty suffix means major,
// matching the bare-tonic convention ("F" is F major).
func parseMode(s string) (Mode, bool) {
	switch s {
	case "":
		return ModeMajor, true
	case "m", "min", "minor":
		return ModeMinor, true
	case "maj", "major":
		return ModeMajor, true
	default:
		return ModeMajor, false
	}
}

// pitchClass computes the semitone index (C = 0) for a note letter plus
// accidental offset.
func pitchClass(letter byte, accidental int) int {
	base := map[byte]int{
		'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
	}[letter]
	return ((base+accidental)%12 + 12) % 12
}
