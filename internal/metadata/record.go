// Package metadata builds normalized per-track metadata records from raw
// tag fields.
//
// # Record
//
// A Record is an immutable set of optional named fields. Fields that the
// source file does not carry are simply absent: looking them up reports
// ok=false, and nothing in this package ever errors on missing data.
//
//	rec := metadata.Normalize(raw)
//	artist, ok := rec.Get(metadata.FieldArtist)
//
// # Normalization
//
// Normalize is a pure transform: raw tag key/values in, Record out. It
// derives the Camelot wheel code from the key tag, squares up year, BPM and
// track-number formats, and falls back to a trailing "(... Mix)" suffix on
// the title when no explicit mix tag exists. It performs no I/O.
package metadata

// Field names one optional metadata attribute of a track.
type Field string

const (
	FieldArtist  Field = "artist"
	FieldTitle   Field = "title"
	FieldAlbum   Field = "album"
	FieldYear    Field = "year"
	FieldLabel   Field = "label"
	FieldBPM     Field = "bpm"
	FieldKey     Field = "key"
	FieldCamelot Field = "camelot"
	FieldMix     Field = "mix"
	FieldTrack   Field = "track"
)

// Fields lists every field a Record may carry, in display order.
var Fields = []Field{
	FieldArtist, FieldTitle, FieldAlbum, FieldYear, FieldLabel,
	FieldBPM, FieldKey, FieldCamelot, FieldMix, FieldTrack,
}

// Record is an immutable collection of optional metadata fields for one
// audio file. The zero value is an empty record.
type Record struct {
	fields map[Field]string
}

// New builds a Record from explicit field values. Empty values are treated
// as absent.
func New(fields map[Field]string) Record {
	m := make(map[Field]string, len(fields))
	for f, v := range fields {
		if v != "" {
			m[f] = v
		}
	}
	return Record{fields: m}
}

// Get returns the value of a field and whether it is present.
func (r Record) Get(f Field) (string, bool) {
	v, ok := r.fields[f]
	return v, ok
}

// Has reports whether every listed field is present.
func (r Record) Has(fields ...Field) bool {
	for _, f := range fields {
		if _, ok := r.fields[f]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of present fields.
func (r Record) Len() int {
	return len(r.fields)
}
