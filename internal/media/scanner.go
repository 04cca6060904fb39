package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-gallery/internal/logging"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/metrics"
)

// MediaItem is one eligible file discovered in a directory listing.
type MediaItem struct {
	Name     string // filename relative to the scanned directory
	MimeType string
	Title    string
	Size     int64
}

// Kind reports whether the item is an image or a video.
func (m MediaItem) Kind() mediatypes.FileType {
	return mediatypes.GetFileType(m.MimeType)
}

// Scanner enumerates gallery media in a single directory. It keeps no state
// between calls; every Scan reads the directory fresh.
type Scanner struct {
	detector mediatypes.Detector
}

// NewScanner returns a Scanner using detector for content sniffing. A nil
// detector selects mediatypes.DefaultDetector.
func NewScanner(detector mediatypes.Detector) *Scanner {
	if detector == nil {
		detector = mediatypes.DefaultDetector()
	}
	return &Scanner{detector: detector}
}

// Detector returns the content sniffer the scanner classifies files with.
func (s *Scanner) Detector() mediatypes.Detector {
	return s.detector
}

// Scan lists the image and video files in targetDir in directory order.
// Thumbnails, hidden files, subdirectories, non-media content and camera raw
// files are left out. An empty result is not an error.
func (s *Scanner) Scan(targetDir string) ([]MediaItem, error) {
	start := time.Now()

	entries, err := os.ReadDir(targetDir)
	if err != nil {
		metrics.ScannerOperationsTotal.WithLabelValues("scan", "error").Inc()
		return nil, fmt.Errorf("read directory %s: %w", targetDir, err)
	}

	titles := loadTitles(targetDir)
	items := make([]MediaItem, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()

		switch {
		case strings.HasPrefix(name, "."):
			metrics.ScannerFilesSkipped.WithLabelValues("hidden").Inc()
			continue
		case entry.IsDir():
			metrics.ScannerFilesSkipped.WithLabelValues("directory").Inc()
			continue
		case IsThumbnailName(name):
			metrics.ScannerFilesSkipped.WithLabelValues("thumbnail").Inc()
			continue
		}

		path := filepath.Join(targetDir, name)
		mimeType, err := s.detector.DetectFile(path)
		if err != nil {
			logging.Debug("Scanner: cannot sniff %s: %v", path, err)
			metrics.ScannerFilesSkipped.WithLabelValues("unreadable").Inc()
			continue
		}

		if mediatypes.IsExcludedRaw(mimeType) {
			metrics.ScannerFilesSkipped.WithLabelValues("raw").Inc()
			continue
		}
		if !mediatypes.IsGalleryMedia(mimeType) {
			metrics.ScannerFilesSkipped.WithLabelValues("not_media").Inc()
			continue
		}

		title, ok := titles[name]
		if !ok {
			title = name
		}

		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}

		items = append(items, MediaItem{
			Name:     name,
			MimeType: mediatypes.BaseType(mimeType),
			Title:    title,
			Size:     size,
		})
	}

	metrics.ScannerOperationsTotal.WithLabelValues("scan", "success").Inc()
	metrics.ScannerOperationDuration.WithLabelValues("scan").Observe(time.Since(start).Seconds())
	metrics.ScannerItemsReturned.WithLabelValues("scan").Observe(float64(len(items)))

	logging.Debug("Scanner: %s -> %d items (%d entries) in %v", targetDir, len(items), len(entries), time.Since(start))

	return items, nil
}
