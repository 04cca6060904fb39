package handlers

import (
	"time"

	"media-gallery/internal/media"
	"media-gallery/internal/startup"
)

// Handlers serves the gallery HTTP API. It holds no per-request state.
type Handlers struct {
	root       string
	spec       media.SizeSpec
	background string
	scanner    *media.Scanner
	cache      *media.ThumbnailCache
	started    time.Time
}

func New(config *startup.Config, scanner *media.Scanner, cache *media.ThumbnailCache) *Handlers {
	return &Handlers{
		root:       config.GalleryDir,
		spec:       media.NewSizeSpec(config.ThumbnailSize),
		background: config.BackgroundColor,
		scanner:    scanner,
		cache:      cache,
		started:    time.Now(),
	}
}
