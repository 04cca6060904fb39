package mediatypes

import "strings"

// FileType represents the gallery category of a media file.
type FileType string

const (
	// FileTypeImage represents a still image.
	FileTypeImage FileType = "image"
	// FileTypeVideo represents a video.
	FileTypeVideo FileType = "video"
	// FileTypeOther represents anything the gallery does not show.
	FileTypeOther FileType = "other"
)

// OctetStream is returned when content cannot be classified.
const OctetStream = "application/octet-stream"

// ExcludedSubtypes are image types that are never listed because no decoder
// downstream can render them.
var ExcludedSubtypes = map[string]bool{
	"image/x-canon-cr2": true,
}

// BaseType strips parameters and normalizes case, so
// "Image/JPEG; charset=binary" becomes "image/jpeg".
func BaseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// IsImage reports whether the MIME type is an image type.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(BaseType(mimeType), "image/")
}

// IsVideo reports whether the MIME type is a video type.
func IsVideo(mimeType string) bool {
	return strings.HasPrefix(BaseType(mimeType), "video/")
}

// IsExcludedRaw reports whether the MIME type is an image subtype the gallery skips.
func IsExcludedRaw(mimeType string) bool {
	return ExcludedSubtypes[BaseType(mimeType)]
}

// GetFileType returns the gallery category for a MIME type.
func GetFileType(mimeType string) FileType {
	switch {
	case IsVideo(mimeType):
		return FileTypeVideo
	case IsImage(mimeType) && !IsExcludedRaw(mimeType):
		return FileTypeImage
	default:
		return FileTypeOther
	}
}

// IsGalleryMedia returns true if a file with this MIME type belongs in a listing.
func IsGalleryMedia(mimeType string) bool {
	return GetFileType(mimeType) != FileTypeOther
}
