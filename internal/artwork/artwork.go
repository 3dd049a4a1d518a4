// Package artwork extracts and exports the cover art embedded in audio
// files.
package artwork

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"

	"github.com/bogem/id3v2"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/image/draw"
)

// ErrNoArtwork reports a file without an embedded picture.
var ErrNoArtwork = errors.Base("no embedded artwork")

// Extract returns the embedded cover image and its MIME type. The
// front-cover picture wins when a file carries several.
func Extract(path string) ([]byte, string, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, "", errors.Errorf("reading tags from %s: %w", path, err)
	}
	defer tag.Close()

	var fallback *id3v2.PictureFrame
	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		if pic.PictureType == id3v2.PTFrontCover {
			return pic.Picture, pic.MimeType, nil
		}
		if fallback == nil {
			p := pic
			fallback = &p
		}
	}
	if fallback != nil {
		return fallback.Picture, fallback.MimeType, nil
	}
	return nil, "", errors.Errorf("%w: %s", ErrNoArtwork, path)
}

// Export writes the file's cover art to out as JPEG. A maxSize > 0
// bounds both dimensions while preserving aspect ratio.
func Export(path, out string, maxSize int) error {
	data, _, err := Extract(path)
	if err != nil {
		return err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Errorf("decoding artwork: %w", err)
	}
	img = fit(img, maxSize)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return errors.Errorf("encoding artwork: %w", err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return errors.Errorf("writing artwork: %w", err)
	}
	return nil
}

// fit scales img down so both dimensions stay within maxSize. Images
// already inside the bound, or a non-positive bound, pass through
// untouched. Catmull-Rom keeps scaled covers sharp.
func fit(img image.Image, maxSize int) image.Image {
	if maxSize <= 0 {
		return img
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxSize && height <= maxSize {
		return img
	}

	ratio := float64(width) / float64(height)
	if width >= height {
		width = maxSize
		height = int(float64(maxSize) / ratio)
	} else {
		height = maxSize
		width = int(float64(maxSize) * ratio)
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
