package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"media-gallery/internal/media"
	"media-gallery/internal/memory"

	"golang.org/x/image/bmp"
)

func encode(t *testing.T, format string, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 32, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "png":
		err = png.Encode(&buf, img)
	case "bmp":
		err = bmp.Encode(&buf, img)
	default:
		t.Fatalf("unsupported format %s", format)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func put(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// newTestWarmer lays out:
//
//	a.jpg            generated
//	d.jpg + d_thumb  already cached
//	e.bmp            decodable, served as is
//	notes.txt        not media
//	sub/b.png        generated
//	.hidden/c.jpg    never visited
func newTestWarmer(t *testing.T, workers int) (*warmer, string) {
	t.Helper()

	root := t.TempDir()
	put(t, filepath.Join(root, "a.jpg"), encode(t, "jpeg", 800, 400))
	put(t, filepath.Join(root, "d.jpg"), encode(t, "jpeg", 400, 400))
	put(t, filepath.Join(root, "d_thumb.jpg"), encode(t, "jpeg", 10, 10))
	put(t, filepath.Join(root, "e.bmp"), encode(t, "bmp", 50, 40))
	put(t, filepath.Join(root, "notes.txt"), []byte("not a photo\n"))
	put(t, filepath.Join(root, "sub", "b.png"), encode(t, "png", 400, 800))
	put(t, filepath.Join(root, ".hidden", "c.jpg"), encode(t, "jpeg", 100, 100))

	return &warmer{
		root:    root,
		spec:    media.NewSizeSpec(300),
		scanner: media.NewScanner(nil),
		cache:   media.NewThumbnailCache(media.NewGenerator(true, false), nil, true),
		monitor: memory.NewMonitor(memory.Config{}),
		workers: workers,
	}, root
}

func TestWarmerRun(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run("workers="+strconv.Itoa(workers), func(t *testing.T) {
			w, root := newTestWarmer(t, workers)

			sum, err := w.run(context.Background())
			if err != nil {
				t.Fatalf("run() error: %v", err)
			}

			got := map[string]int64{
				"dirs":      sum.dirs.Load(),
				"generated": sum.generated.Load(),
				"cached":    sum.cached.Load(),
				"fallback":  sum.fallback.Load(),
				"failed":    sum.failed.Load(),
			}
			want := map[string]int64{"dirs": 2, "generated": 2, "cached": 1, "fallback": 1, "failed": 0}
			for k, v := range want {
				if got[k] != v {
					t.Errorf("%s = %d, want %d", k, got[k], v)
				}
			}
			if sum.bytes.Load() == 0 {
				t.Error("bytes written = 0")
			}

			for _, p := range []string{"a_thumb.jpg", filepath.Join("sub", "b_thumb.png")} {
				if _, err := os.Stat(filepath.Join(root, p)); err != nil {
					t.Errorf("expected %s: %v", p, err)
				}
			}
			for _, p := range []string{"e_thumb.bmp", filepath.Join(".hidden", "c_thumb.jpg")} {
				if _, err := os.Stat(filepath.Join(root, p)); !os.IsNotExist(err) {
					t.Errorf("%s should not exist (err=%v)", p, err)
				}
			}
		})
	}
}

func TestWarmerRunIsIdempotent(t *testing.T) {
	w, _ := newTestWarmer(t, 2)

	if _, err := w.run(context.Background()); err != nil {
		t.Fatalf("first run() error: %v", err)
	}
	sum, err := w.run(context.Background())
	if err != nil {
		t.Fatalf("second run() error: %v", err)
	}

	if got := sum.generated.Load(); got != 0 {
		t.Errorf("second run generated = %d, want 0", got)
	}
	if got := sum.cached.Load(); got != 3 {
		t.Errorf("second run cached = %d, want 3", got)
	}
	if got := sum.fallback.Load(); got != 1 {
		t.Errorf("second run fallback = %d, want 1", got)
	}
}

func TestWarmerRunCanceled(t *testing.T) {
	w, _ := newTestWarmer(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := w.run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run() error = %v, want context.Canceled", err)
	}
	if got := sum.generated.Load(); got != 0 {
		t.Errorf("generated = %d after cancellation, want 0", got)
	}
}

func TestWarmerRunHoldsBackUnderMemoryPressure(t *testing.T) {
	w, _ := newTestWarmer(t, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Any live heap is far above a one byte limit, so the monitor pauses on
	// its first sample and never resumes.
	w.monitor = memory.NewMonitor(memory.Config{
		LimitBytes:        1,
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     time.Millisecond,
	})
	w.monitor.Start(ctx)

	deadline := time.Now().Add(time.Second)
	for !w.monitor.IsPaused() {
		if time.Now().After(deadline) {
			t.Fatal("monitor did not pause")
		}
		time.Sleep(time.Millisecond)
	}

	runCtx, stop := context.WithTimeout(ctx, 100*time.Millisecond)
	defer stop()

	sum, err := w.run(runCtx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("run() error = %v, want context.DeadlineExceeded", err)
	}
	if got := sum.throttled.Load(); got == 0 {
		t.Error("throttled = 0, want held-back files counted")
	}
	if got := sum.generated.Load(); got != 0 {
		t.Errorf("generated = %d while paused, want 0", got)
	}
}

func TestWarmerRunMissingRoot(t *testing.T) {
	w, root := newTestWarmer(t, 1)
	w.root = filepath.Join(root, "missing")

	if _, err := w.run(context.Background()); err == nil {
		t.Error("run() on a missing root succeeded, want error")
	}
}
