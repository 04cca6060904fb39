package media

import (
	"os"
	"path/filepath"
	"strings"
)

const thumbnailSuffix = "_thumb"

// ThumbnailPath derives the persisted thumbnail location for an original:
// "<stem>_thumb<ext>" in the same directory.
func ThumbnailPath(originalPath string) string {
	dir, base := filepath.Split(originalPath)
	return filepath.Join(dir, ThumbnailName(base))
}

// ThumbnailName is ThumbnailPath for a bare filename.
func ThumbnailName(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// dotfile such as ".jpg": treat the whole name as the stem
		return name + thumbnailSuffix
	}
	return stem + thumbnailSuffix + ext
}

// IsThumbnailName reports whether name matches the generated thumbnail
// pattern "*_thumb.*". The only other name ThumbnailName produces is
// "<name>_thumb" for an extensionless original, so that form is matched too
// when name has no extension. Derived dotfile names are hidden and never
// listed, so they need no match here.
func IsThumbnailName(name string) bool {
	if strings.Contains(name, thumbnailSuffix+".") {
		return true
	}
	return filepath.Ext(name) == "" && name != thumbnailSuffix && strings.HasSuffix(name, thumbnailSuffix)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
