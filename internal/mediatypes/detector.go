package mediatypes

import (
	"fmt"
	"io"
	"path/filepath"

	"media-gallery/internal/filesystem"

	"github.com/zRedShift/mimemagic"
)

// ProbeSize is how many leading bytes are inspected when sniffing a file.
const ProbeSize = 1 << 12

// Detector identifies the MIME type of content. The bytes decide; a file
// name may only refine a content match into one of its subclasses (TIFF
// bytes named .cr2 are a Canon raw, PNG bytes named .jpg stay PNG).
type Detector interface {
	DetectMimeType(data []byte) string
	DetectFile(path string) (string, error)
}

// MagicDetector sniffs content against the shared-mime-info magic database.
type MagicDetector struct{}

var defaultDetector Detector = MagicDetector{}

// DefaultDetector returns the content sniffer used by the server.
func DefaultDetector() Detector {
	return defaultDetector
}

// DetectMimeType returns the MIME type of data, or OctetStream when nothing matches.
func (MagicDetector) DetectMimeType(data []byte) string {
	return detect(data, "")
}

func detect(data []byte, name string) string {
	if len(data) > ProbeSize {
		data = data[:ProbeSize]
	}
	mt := mimemagic.Match(data, name, mimemagic.Magic).MediaType()
	if mt == "" || mt == "/" {
		return OctetStream
	}
	return mt
}

// DetectFile reads the head of the file at path and sniffs it, using the
// base name to tell raw formats apart from the container they share.
func (MagicDetector) DetectFile(path string) (string, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, ProbeSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return detect(head[:n], filepath.Base(path)), nil
}
