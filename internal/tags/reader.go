// Package tags reads the raw ID3 text frames the metadata normalizer
// understands.
package tags

import (
	"github.com/bogem/id3v2"
	"gitlab.com/tozd/go/errors"
)

// Reader extracts raw tag fields from audio files.
type Reader struct{}

// ReadRaw returns the tag fields of the file at path under stable
// lowercase keys: artist, title, album, year, label, bpm, key, mix,
// track. Fields the file does not carry are absent, and a file with no
// tag at all yields an empty map. Only I/O failures return an error.
func (Reader) ReadRaw(path string) (map[string]string, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, errors.Errorf("reading tags from %s: %w", path, err)
	}
	defer tag.Close()

	raw := make(map[string]string)
	put := func(field, value string) {
		if value != "" {
			raw[field] = value
		}
	}

	put("artist", tag.Artist())
	put("title", tag.Title())
	put("album", tag.Album())
	put("label", tag.GetTextFrame("TPUB").Text)
	put("bpm", tag.GetTextFrame("TBPM").Text)
	put("key", tag.GetTextFrame("TKEY").Text)
	put("mix", tag.GetTextFrame("TIT3").Text)
	put("track", tag.GetTextFrame("TRCK").Text)

	// Recording time (ID3v2.4) wins over the older year frame.
	year := tag.GetTextFrame("TDRC").Text
	if year == "" {
		year = tag.GetTextFrame("TYER").Text
	}
	put("year", year)

	return raw, nil
}
