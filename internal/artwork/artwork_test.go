package artwork

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"gitlab.com/tozd/go/errors"
)

// testJPEG renders a solid-colour JPEG of the given size.
func testJPEG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding fixture image: %v", err)
	}
	return buf.Bytes()
}

// writeTrackWithArt drops an MP3 fixture carrying the given picture
// frames.
func writeTrackWithArt(t *testing.T, dir, name string, pics ...id3v2.PictureFrame) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("\xff\xfbaudio-bytes"), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("opening fixture %s: %v", name, err)
	}
	for _, pic := range pics {
		tag.AddAttachedPicture(pic)
	}
	if err := tag.Save(); err != nil {
		t.Fatalf("saving fixture %s: %v", name, err)
	}
	if err := tag.Close(); err != nil {
		t.Fatalf("closing fixture %s: %v", name, err)
	}
	return path
}

func frontCover(data []byte) id3v2.PictureFrame {
	return id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     data,
	}
}

func TestExtract_PrefersFrontCover(t *testing.T) {
	dir := t.TempDir()
	front := testJPEG(t, 8, 8, color.RGBA{R: 255, A: 255})
	back := testJPEG(t, 16, 16, color.RGBA{B: 255, A: 255})
	path := writeTrackWithArt(t, dir, "track.mp3",
		id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTBackCover,
			Description: "Back",
			Picture:     back,
		},
		frontCover(front),
	)

	got, mime, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q, want %q", mime, "image/jpeg")
	}
	if !bytes.Equal(got, front) {
		t.Errorf("Extract returned %d bytes, want the %d-byte front cover", len(got), len(front))
	}
}

func TestExtract_FallsBackToAnyPicture(t *testing.T) {
	dir := t.TempDir()
	back := testJPEG(t, 8, 8, color.RGBA{G: 255, A: 255})
	path := writeTrackWithArt(t, dir, "track.mp3", id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTBackCover,
		Description: "Back",
		Picture:     back,
	})

	got, _, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !bytes.Equal(got, back) {
		t.Errorf("Extract returned %d bytes, want the %d-byte back cover", len(got), len(back))
	}
}

func TestExtract_NoArtwork(t *testing.T) {
	dir := t.TempDir()
	path := writeTrackWithArt(t, dir, "bare.mp3")

	_, _, err := Extract(path)
	if !errors.Is(err, ErrNoArtwork) {
		t.Fatalf("Extract error = %v, want ErrNoArtwork", err)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	_, _, err := Extract(filepath.Join(t.TempDir(), "absent.mp3"))
	if err == nil {
		t.Fatal("Extract on a missing file returned nil error")
	}
}

func TestExport_WritesDecodableJPEG(t *testing.T) {
	dir := t.TempDir()
	cover := testJPEG(t, 32, 32, color.RGBA{R: 200, G: 100, A: 255})
	path := writeTrackWithArt(t, dir, "track.mp3", frontCover(cover))
	out := filepath.Join(dir, "cover.jpg")

	if err := Export(path, out, 0); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading exported artwork: %v", err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding exported artwork: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("exported format = %q, want %q", format, "jpeg")
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("exported size = %dx%d, want 32x32", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestExport_ResizesToBound(t *testing.T) {
	dir := t.TempDir()
	cover := testJPEG(t, 100, 50, color.RGBA{B: 180, A: 255})
	path := writeTrackWithArt(t, dir, "track.mp3", frontCover(cover))
	out := filepath.Join(dir, "cover.jpg")

	if err := Export(path, out, 40); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading exported artwork: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding exported artwork: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("exported size = %dx%d, want 40x20", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestExport_NoArtwork(t *testing.T) {
	dir := t.TempDir()
	path := writeTrackWithArt(t, dir, "bare.mp3")

	err := Export(path, filepath.Join(dir, "cover.jpg"), 0)
	if !errors.Is(err, ErrNoArtwork) {
		t.Fatalf("Export error = %v, want ErrNoArtwork", err)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		maxSize    int
		wantWidth  int
		wantHeight int
	}{
		{"no bound", 100, 50, 0, 100, 50},
		{"within bound", 30, 20, 40, 30, 20},
		{"wide image scaled", 100, 50, 40, 40, 20},
		{"tall image scaled", 50, 100, 40, 20, 40},
		{"square image scaled", 80, 80, 40, 40, 40},
		{"extreme ratio keeps min dimension", 1000, 1, 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.width, tt.height))
			got := fit(img, tt.maxSize)
			if got.Bounds().Dx() != tt.wantWidth || got.Bounds().Dy() != tt.wantHeight {
				t.Errorf("fit(%dx%d, %d) = %dx%d, want %dx%d",
					tt.width, tt.height, tt.maxSize,
					got.Bounds().Dx(), got.Bounds().Dy(),
					tt.wantWidth, tt.wantHeight)
			}
		})
	}
}
