package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"media-gallery/internal/filesystem"
	"media-gallery/internal/logging"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/metrics"

	"github.com/dustin/go-humanize"
)

// Source says where the bytes of a Result came from.
type Source string

const (
	SourceCache       Source = "cache"
	SourceGenerated   Source = "generated"
	SourcePlaceholder Source = "placeholder"
	SourceOriginal    Source = "original"
)

// Result is what GetOrCreate serves for one original.
type Result struct {
	Data     []byte
	MimeType string
	Source   Source
}

// ThumbnailCache serves thumbnails persisted beside their originals and
// creates missing ones on demand. An existing thumbnail file is always
// trusted; nothing is invalidated. Concurrent requests for the same original
// may both generate, and the atomic write makes either result safe to keep.
type ThumbnailCache struct {
	generator *Generator
	detector  mediatypes.Detector
	persist   bool
	retry     filesystem.RetryConfig
}

// NewThumbnailCache builds a cache. persist controls whether generated
// thumbnails are written next to the original.
func NewThumbnailCache(generator *Generator, detector mediatypes.Detector, persist bool) *ThumbnailCache {
	if detector == nil {
		detector = mediatypes.DefaultDetector()
	}
	if generator.Enabled() {
		logging.Debug("ThumbnailCache: enabled, persist: %v", persist)
	} else {
		logging.Debug("ThumbnailCache: codec disabled, originals will be served")
	}
	return &ThumbnailCache{
		generator: generator,
		detector:  detector,
		persist:   persist,
		retry:     filesystem.DefaultRetryConfig(),
	}
}

// GetOrCreate returns the thumbnail for originalPath. Only ErrOriginalNotFound
// and context cancellation are returned as errors; every image processing
// failure falls back to serving the original bytes.
func (c *ThumbnailCache) GetOrCreate(ctx context.Context, originalPath string, spec SizeSpec) (*Result, error) {
	thumbPath := ThumbnailPath(originalPath)

	if data, err := filesystem.ReadFileWithRetry(thumbPath, c.retry); err == nil {
		metrics.ThumbnailCacheHits.Inc()
		logging.Debug("Thumbnail cache hit: %s", thumbPath)
		return &Result{Data: data, MimeType: mediatypes.BaseType(c.detector.DetectMimeType(data)), Source: SourceCache}, nil
	}
	metrics.ThumbnailCacheMisses.Inc()

	info, err := filesystem.StatWithRetry(originalPath, c.retry)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrOriginalNotFound, filepath.Base(originalPath))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mimeType, err := c.detector.DetectFile(originalPath)
	if err != nil {
		return nil, fmt.Errorf("sniff %s: %w", originalPath, err)
	}
	if mediatypes.IsVideo(mimeType) {
		metrics.ThumbnailFallbacksTotal.WithLabelValues("placeholder").Inc()
		return &Result{Data: PlaceholderIcon(), MimeType: PlaceholderMimeType, Source: SourcePlaceholder}, nil
	}

	original, err := filesystem.ReadFileWithRetry(originalPath, c.retry)
	if err != nil {
		return nil, fmt.Errorf("read original %s: %w", originalPath, err)
	}

	data, codec, err := c.generator.Generate(ctx, original, spec)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.recordFallback(originalPath, err)
		return &Result{Data: original, MimeType: mediatypes.BaseType(mimeType), Source: SourceOriginal}, nil
	}

	if c.persist {
		c.store(thumbPath, data)
	}

	return &Result{Data: data, MimeType: codec.MimeType(), Source: SourceGenerated}, nil
}

func (c *ThumbnailCache) recordFallback(originalPath string, err error) {
	switch {
	case errors.Is(err, ErrCodecUnavailable):
		metrics.ThumbnailFallbacksTotal.WithLabelValues("codec_unavailable").Inc()
		logging.Debug("Thumbnailing unavailable, serving original %s", originalPath)
	case errors.Is(err, ErrImageTooLarge):
		metrics.ThumbnailFallbacksTotal.WithLabelValues("too_large").Inc()
		logging.Info("Serving oversized original %s: %v", originalPath, err)
	case errors.Is(err, ErrPassthrough):
		metrics.ThumbnailFallbacksTotal.WithLabelValues("passthrough").Inc()
		logging.Debug("Serving %s unchanged: %v", originalPath, err)
	default:
		metrics.ThumbnailFallbacksTotal.WithLabelValues("unsupported").Inc()
		logging.Warn("Thumbnail generation failed for %s, serving original: %v", originalPath, err)
	}
}

// store persists a generated thumbnail. Failures are logged and counted only.
func (c *ThumbnailCache) store(thumbPath string, data []byte) {
	if err := filesystem.WriteFileAtomic(thumbPath, data, 0o644); err != nil {
		metrics.ThumbnailPersistFailures.Inc()
		logging.Warn("Failed to cache thumbnail %s: %v", thumbPath, err)
		return
	}
	metrics.ThumbnailBytesWritten.Add(float64(len(data)))
	logging.Debug("Thumbnail cached: %s (%s)", thumbPath, humanize.Bytes(uint64(len(data))))
}

// Exists reports whether a persisted thumbnail is present for originalPath.
func (c *ThumbnailCache) Exists(originalPath string) bool {
	return fileExists(ThumbnailPath(originalPath))
}
