package media

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"media-gallery/internal/filesystem"
	"media-gallery/internal/logging"
	"media-gallery/internal/metrics"
)

// TitlesFile is the sidecar mapping filenames to display titles.
const TitlesFile = "titles.csv"

// loadTitles reads the titles sidecar in dir. A missing sidecar yields an
// empty map. Rows with fewer than two columns, rows that fail to parse, rows
// naming a path rather than a plain filename, and rows naming files that no
// longer exist are skipped.
func loadTitles(dir string) map[string]string {
	titles := make(map[string]string)

	data, err := filesystem.ReadFileWithRetry(filepath.Join(dir, TitlesFile), filesystem.DefaultRetryConfig())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("Failed to read %s in %s: %v", TitlesFile, dir, err)
		}
		return titles
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				metrics.ScannerTitleRowsSkipped.Inc()
				logging.Debug("Skipping malformed row in %s: %v", TitlesFile, err)
				continue
			}
			logging.Warn("Stopped reading %s in %s: %v", TitlesFile, dir, err)
			break
		}

		if len(record) < 2 || record[0] == "" {
			metrics.ScannerTitleRowsSkipped.Inc()
			continue
		}
		// Keys are matched against bare directory entry names.
		if strings.ContainsAny(record[0], `/\`) || record[0] == "." || record[0] == ".." {
			metrics.ScannerTitleRowsSkipped.Inc()
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, record[0])); err != nil {
			metrics.ScannerTitleRowsSkipped.Inc()
			continue
		}
		titles[record[0]] = record[1]
	}

	return titles
}
