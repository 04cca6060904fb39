package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"media-gallery/internal/media"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/startup"
)

const fakeVideo = "FAKEVIDEO"

// stubDetector reports fakeVideo content as MP4 and sniffs everything else
// for real.
type stubDetector struct{}

func (stubDetector) DetectMimeType(data []byte) string {
	if bytes.HasPrefix(data, []byte(fakeVideo)) {
		return "video/mp4"
	}
	return mediatypes.DefaultDetector().DetectMimeType(data)
}

func (d stubDetector) DetectFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return d.DetectMimeType(data), nil
}

func sampleJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newTestHandlers builds handlers over a fresh gallery root laid out as:
//
//	trips/a.jpg        800x400 JPEG titled "Sunset"
//	trips/clip.mp4     fake video
//	trips/titles.csv
//	empty/
func newTestHandlers(t *testing.T) (*Handlers, string) {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "trips", "a.jpg"), sampleJPEG(t, 800, 400))
	writeFile(t, filepath.Join(root, "trips", "clip.mp4"), []byte(fakeVideo+"0000"))
	writeFile(t, filepath.Join(root, "trips", media.TitlesFile), []byte("a.jpg,Sunset\n"))
	if err := os.Mkdir(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	config := &startup.Config{
		GalleryDir:          root,
		ThumbnailSize:       300,
		BackgroundColor:     "#123456",
		ThumbnailsEnabled:   true,
		ThumbnailCacheWrite: true,
	}
	detector := stubDetector{}
	scanner := media.NewScanner(detector)
	cache := media.NewThumbnailCache(media.NewGenerator(true, false), detector, true)

	return New(config, scanner, cache), root
}
