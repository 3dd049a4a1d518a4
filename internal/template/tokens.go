package template

import (
	"fmt"

	"github.com/zenone/crate/internal/metadata"
)

// simpleTokens is the closed vocabulary of plain substitution tokens. Each
// expands to its field value, or to the empty string when the field is
// absent.
var simpleTokens = map[string]metadata.Field{
	"artist":  metadata.FieldArtist,
	"title":   metadata.FieldTitle,
	"album":   metadata.FieldAlbum,
	"year":    metadata.FieldYear,
	"label":   metadata.FieldLabel,
	"bpm":     metadata.FieldBPM,
	"key":     metadata.FieldKey,
	"camelot": metadata.FieldCamelot,
	"mix":     metadata.FieldMix,
	"track":   metadata.FieldTrack,
}

// composite is a conditional token: it renders only when every required
// field is present, otherwise it expands to the empty string.
type composite struct {
	requires []metadata.Field
	render   func(rec metadata.Record) string
}

var compositeTokens = map[string]composite{
	// {mix_paren} wraps the mix name in parentheses: "(Extended Mix)".
	"mix_paren": {
		requires: []metadata.Field{metadata.FieldMix},
		render: func(rec metadata.Record) string {
			mix, _ := rec.Get(metadata.FieldMix)
			return fmt.Sprintf("(%s)", mix)
		},
	},

	// {key_bpm} brackets key and tempo together: "[Fm 124]".
	"key_bpm": {
		requires: []metadata.Field{metadata.FieldKey, metadata.FieldBPM},
		render: func(rec metadata.Record) string {
			key, _ := rec.Get(metadata.FieldKey)
			bpm, _ := rec.Get(metadata.FieldBPM)
			return fmt.Sprintf("[%s %s]", key, bpm)
		},
	},

	// {camelot_bpm} is the wheel-code variant: "[4A 124]".
	"camelot_bpm": {
		requires: []metadata.Field{metadata.FieldCamelot, metadata.FieldBPM},
		render: func(rec metadata.Record) string {
			camelot, _ := rec.Get(metadata.FieldCamelot)
			bpm, _ := rec.Get(metadata.FieldBPM)
			return fmt.Sprintf("[%s %s]", camelot, bpm)
		},
	},
}

// Tokens lists every recognized token name, simple tokens first, for help
// output and documentation.
func Tokens() []string {
	names := make([]string, 0, len(simpleTokens)+len(compositeTokens))
	for _, f := range metadata.Fields {
		names = append(names, string(f))
	}
	for _, name := range []string{"mix_paren", "key_bpm", "camelot_bpm"} {
		names = append(names, name)
	}
	return names
}

// sampleRecord feeds Validate's sample expansion so callers can show what a
// template produces before touching any files.
var sampleRecord = metadata.New(map[metadata.Field]string{
	metadata.FieldArtist:  "Some Artist",
	metadata.FieldTitle:   "Some Track",
	metadata.FieldAlbum:   "Some Album",
	metadata.FieldYear:    "2024",
	metadata.FieldLabel:   "White Label",
	metadata.FieldBPM:     "124",
	metadata.FieldKey:     "Am",
	metadata.FieldCamelot: "8A",
	metadata.FieldMix:     "Extended Mix",
	metadata.FieldTrack:   "01",
})
