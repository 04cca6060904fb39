package media

import (
	"errors"
	"fmt"
)

// ErrNotFound is the root of every error the HTTP boundary reports as 404.
var ErrNotFound = errors.New("not found")

var (
	ErrPathTraversal     = fmt.Errorf("%w: path traversal rejected", ErrNotFound)
	ErrDirectoryNotFound = fmt.Errorf("%w: directory not found", ErrNotFound)
	ErrOriginalNotFound  = fmt.Errorf("%w: original not found", ErrNotFound)
)

// Errors recovered inside ThumbnailCache.GetOrCreate. They never reach callers
// of the cache; the original bytes are served instead.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrCodecUnavailable  = errors.New("image codec unavailable")
	ErrPassthrough       = errors.New("format is served unchanged")

	// ErrImageTooLarge is an ErrUnsupportedFormat for originals whose decoded
	// size would exceed MaxImageDimension or MaxImagePixels.
	ErrImageTooLarge = fmt.Errorf("%w: image too large", ErrUnsupportedFormat)
)
