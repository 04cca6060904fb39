package main

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"

	"media-gallery/internal/logging"
	"media-gallery/internal/media"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/memory"

	"golang.org/x/sync/errgroup"
)

// warmer pre-generates thumbnails for every still image under root.
type warmer struct {
	root    string
	spec    media.SizeSpec
	scanner *media.Scanner
	cache   *media.ThumbnailCache
	monitor *memory.Monitor
	workers int
}

type summary struct {
	dirs      atomic.Int64
	generated atomic.Int64
	cached    atomic.Int64
	fallback  atomic.Int64
	failed    atomic.Int64
	bytes     atomic.Int64
	throttled atomic.Int64
}

// run walks the tree on one goroutine and feeds originals to the worker
// pool. Per-file failures are counted, not returned; only a failure to walk
// the root or cancellation stops the run.
func (w *warmer) run(ctx context.Context) (*summary, error) {
	sum := &summary{}
	paths := make(chan string)
	group, ctx := errgroup.WithContext(ctx)

	for i := 0; i < w.workers; i++ {
		group.Go(func() error {
			for p := range paths {
				if err := ctx.Err(); err != nil {
					return err
				}
				if w.monitor.IsPaused() {
					sum.throttled.Add(1)
					logging.Debug("Memory pressure, holding %s", media.Rel(w.root, p))
				}
				if err := w.monitor.WaitIfPaused(ctx); err != nil {
					return err
				}
				w.warmOne(ctx, p, sum)
			}
			return nil
		})
	}

	group.Go(func() error {
		defer close(paths)
		return filepath.WalkDir(w.root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if p == w.root {
					return err
				}
				logging.Warn("Skipping %s: %v", media.Rel(w.root, p), err)
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if p != w.root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}

			items, err := w.scanner.Scan(p)
			if err != nil {
				logging.Warn("Failed to scan %s: %v", media.Rel(w.root, p), err)
				return nil
			}
			sum.dirs.Add(1)

			for _, item := range items {
				if item.Kind() != mediatypes.FileTypeImage {
					continue
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case paths <- filepath.Join(p, item.Name):
				}
			}
			return nil
		})
	})

	err := group.Wait()
	return sum, err
}

func (w *warmer) warmOne(ctx context.Context, p string, sum *summary) {
	rel := media.Rel(w.root, p)

	if w.cache.Exists(p) {
		sum.cached.Add(1)
		logging.Debug("Already cached: %s", rel)
		return
	}

	result, err := w.cache.GetOrCreate(ctx, p, w.spec)
	if err != nil {
		if ctx.Err() == nil {
			sum.failed.Add(1)
			logging.Warn("Failed to warm %s: %v", rel, err)
		}
		return
	}

	switch result.Source {
	case media.SourceGenerated:
		sum.generated.Add(1)
		sum.bytes.Add(int64(len(result.Data)))
		logging.Debug("Generated: %s", rel)
	case media.SourceCache:
		sum.cached.Add(1)
	default:
		sum.fallback.Add(1)
		logging.Debug("Served original for %s (%s)", rel, result.Source)
	}
}
