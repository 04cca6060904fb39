package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"media-gallery/internal/logging"
	"media-gallery/internal/metrics"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
)

// Decoding limits. Originals beyond either are never decoded; the cache
// serves them unchanged. 50 megapixels is about 200MB as RGBA.
const (
	MaxImageDimension = 16384
	MaxImagePixels    = 50_000_000
)

// Generator turns original image bytes into a resampled, center-cropped
// thumbnail in the original's format.
type Generator struct {
	enabled bool
	useVips bool
}

// NewGenerator returns a Generator. When enabled is false every call fails
// with ErrCodecUnavailable. useVips selects the libvips backend when libvips
// has been started; otherwise the pure Go backend is used.
func NewGenerator(enabled, useVips bool) *Generator {
	return &Generator{enabled: enabled, useVips: useVips}
}

// Enabled reports whether the generator can produce thumbnails at all.
func (g *Generator) Enabled() bool {
	return g.enabled
}

// Generate produces a thumbnail for data and returns the codec used to
// encode it.
//
// Errors are one of:
//   - ErrCodecUnavailable when thumbnailing is switched off
//   - ErrPassthrough for formats that decode but are not thumbnailed
//   - ErrUnsupportedFormat for content that cannot be decoded or encoded,
//     including ErrImageTooLarge for originals over the decoding limits
//   - ctx.Err() when the request is abandoned
func (g *Generator) Generate(ctx context.Context, data []byte, spec SizeSpec) ([]byte, Codec, error) {
	if !g.enabled {
		return nil, nil, ErrCodecUnavailable
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if err := checkLimits(cfg); err != nil {
		return nil, nil, err
	}

	codec, ok := codecFor(format)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrPassthrough, format)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	var out []byte
	if g.useVips && IsVipsAvailable() {
		out, err = thumbnailWithVips(data, codec, spec)
	} else {
		out, err = thumbnailWithImaging(ctx, data, codec, spec)
	}
	elapsed := time.Since(start)

	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(codec.Name(), "error").Inc()
		return nil, nil, err
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues(codec.Name(), "success").Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues(codec.Name()).Observe(elapsed.Seconds())
	logging.Debug("Generated %s thumbnail from %dx%d original: %s -> %s in %v",
		codec.Name(), cfg.Width, cfg.Height,
		humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(len(out))), elapsed)

	return out, codec, nil
}

// checkLimits rejects originals by their header dimensions, before any pixel
// buffer is allocated.
func checkLimits(cfg image.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty image %dx%d", ErrUnsupportedFormat, cfg.Width, cfg.Height)
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return fmt.Errorf("%w: %dx%d exceeds %dpx", ErrImageTooLarge, cfg.Width, cfg.Height, MaxImageDimension)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return fmt.Errorf("%w: %dx%d exceeds %s pixels", ErrImageTooLarge, cfg.Width, cfg.Height, humanize.Comma(MaxImagePixels))
	}
	return nil
}

func thumbnailWithImaging(ctx context.Context, data []byte, codec Codec, spec SizeSpec) ([]byte, error) {
	img, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnsupportedFormat, codec.Name(), err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Dimensions come from the decoded image so EXIF rotation is honoured.
	b := img.Bounds()
	newW, newH := ComputeSize(b.Dx(), b.Dy(), spec)
	resized := imaging.Resize(img, newW, newH, imaging.Linear)

	cropW, cropH := cropSize(newW, newH, spec)
	thumb := imaging.CropCenter(resized, cropW, cropH)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, thumb); err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", ErrUnsupportedFormat, codec.Name(), err)
	}
	return buf.Bytes(), nil
}
