// Package playlist renders crate directories as playlist files.
package playlist

import (
	"fmt"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Format represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type Format int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for artist/title info.
	FormatM3U Format = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

// ParseFormat resolves a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3u", "m3u8":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	case "zpl":
		return FormatZPL, nil
	}
	return 0, errors.Errorf("unknown playlist format %q (m3u, pls, wpl, zpl)", s)
}

// Ext returns the file extension for the format, dot included.
func (f Format) Ext() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// Entry is one track of a playlist. Path is the path the playlist file
// will reference, typically just the filename when the playlist sits in
// the same directory as the tracks. Artist, Title and Album come from
// the file's tags and may be empty.
type Entry struct {
	Path   string
	Artist string
	Title  string
	Album  string
}

// display is the human title for an entry, falling back to the filename
// stem when the tags offer nothing.
func (e Entry) display() string {
	switch {
	case e.Artist != "" && e.Title != "":
		return e.Artist + " - " + e.Title
	case e.Title != "":
		return e.Title
	default:
		return strings.TrimSuffix(filepath.Base(e.Path), filepath.Ext(e.Path))
	}
}

// Writer generates playlist content in one format.
//
// Track durations are not probed, so formats that carry one use the
// conventional unknown marker (-1) or omit the attribute.
//
// Example:
//
//	w := playlist.NewWriter(playlist.FormatM3U, true)
//	content := w.Render("house", entries)
//	os.WriteFile("/music/house/house.m3u", []byte(content), 0o644)
type Writer struct {
	format   Format
	extended bool // for M3U: include #EXTINF lines
}

// NewWriter creates a Writer. The extended flag only affects M3U
// output.
func NewWriter(format Format, extended bool) *Writer {
	return &Writer{
		format:   format,
		extended: extended,
	}
}

// Render generates playlist content for the entries. The title labels
// the playlist in formats that carry one.
func (w *Writer) Render(title string, entries []Entry) string {
	switch w.format {
	case FormatPLS:
		return w.renderPLS(entries)
	case FormatWPL:
		return w.renderWPL(title, entries)
	case FormatZPL:
		return w.renderZPL(title, entries)
	default:
		return w.renderM3U(entries)
	}
}

// renderM3U generates an M3U playlist.
//
// Standard M3U format:
//
//	filename1.mp3
//	filename2.mp3
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:-1,Artist - Title
//	filename1.mp3
func (w *Writer) renderM3U(entries []Entry) string {
	var sb strings.Builder

	if w.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range entries {
		if w.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", e.display()))
		}
		sb.WriteString(e.Path + "\n")
	}

	return sb.String()
}

// renderPLS generates a PLS playlist.
//
// PLS format is an INI-style text file:
//
//	[playlist]
//	File1=filename1.mp3
//	Title1=Artist - Title
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (w *Writer) renderPLS(entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, e.Path))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, e.display()))
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(entries)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// renderWPL generates a Windows Media Player playlist, an XML-based
// SMIL format.
func (w *Writer) renderWPL(title string, entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\"/>\n", escapeXML(e.Path)))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// renderZPL generates a Zune/Groove Music playlist. ZPL is similar to
// WPL but carries per-track metadata attributes.
func (w *Writer) renderZPL(title string, entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	sb.WriteString("    <meta name=\"Generator\" content=\"crate\"/>\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(entries)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\"", escapeXML(e.Path)))
		if e.Album != "" {
			sb.WriteString(fmt.Sprintf(" albumTitle=\"%s\"", escapeXML(e.Album)))
		}
		if e.Artist != "" {
			sb.WriteString(fmt.Sprintf(" trackArtist=\"%s\"", escapeXML(e.Artist)))
		}
		if e.Title != "" {
			sb.WriteString(fmt.Sprintf(" trackTitle=\"%s\"", escapeXML(e.Title)))
		}
		sb.WriteString("/>\n")
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// escapeXML escapes special XML characters in a string.
//
// Replaces: & < > " '
// With:     &amp; &lt; &gt; &quot; &apos;
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
