package media

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"media-gallery/internal/mediatypes"
)

const (
	// RootTitle is shown when the gallery root itself is listed.
	RootTitle = "Choose a Photo Collection"

	// EmptyMessage accompanies an empty listing.
	EmptyMessage = "No photos found. Try another directory."

	// largeVideoBytes is the size above which a video gets a poster and
	// is not preloaded.
	largeVideoBytes = 5_000_000
)

// ListingItem is one renderable entry of a directory listing.
type ListingItem struct {
	Name          string `json:"name"`
	Title         string `json:"title"`
	MimeType      string `json:"mimeType"`
	Kind          string `json:"kind"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	MediaURL      string `json:"mediaUrl"`
	PosterURL     string `json:"posterUrl,omitempty"`
	Preload       string `json:"preload,omitempty"`
	DisplayWidth  int    `json:"displayWidth,omitempty"`
	DisplayHeight int    `json:"displayHeight,omitempty"`
}

// Listing is the structured result of a directory listing request.
type Listing struct {
	Directory       string        `json:"directory"`
	Title           string        `json:"title"`
	Items           []ListingItem `json:"items"`
	Empty           bool          `json:"empty"`
	Message         string        `json:"message,omitempty"`
	BackgroundColor string        `json:"backgroundColor"`
	ThumbnailSize   int           `json:"thumbnailSize"`
}

// ListingOptions carries the display settings echoed into a listing.
type ListingOptions struct {
	Spec            SizeSpec
	BackgroundColor string
}

// MediaURL returns the URL an original is served from.
func MediaURL(relDir, name string) string {
	return "/media/" + escapePath(path.Join(relDir, name))
}

// ThumbnailURL returns the endpoint that produces the thumbnail on demand.
func ThumbnailURL(relDir, name string) string {
	q := url.Values{}
	q.Set("dir", relDir)
	q.Set("t", name)
	return "/api/thumbnail?" + q.Encode()
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// BuildListing turns scanned items into the listing for relDir. absDir is
// the resolved directory, used to link thumbnails that already exist on disk
// directly.
func BuildListing(absDir, relDir string, items []MediaItem, opts ListingOptions) Listing {
	listing := Listing{
		Directory:       relDir,
		Title:           DirectoryTitle(relDir),
		Items:           make([]ListingItem, 0, len(items)),
		BackgroundColor: opts.BackgroundColor,
		ThumbnailSize:   opts.Spec.Size,
	}

	for _, item := range items {
		thumbURL := ThumbnailURL(relDir, item.Name)
		if thumbName := ThumbnailName(item.Name); fileExists(filepath.Join(absDir, thumbName)) {
			thumbURL = MediaURL(relDir, thumbName)
		}

		li := ListingItem{
			Name:         item.Name,
			Title:        item.Title,
			MimeType:     item.MimeType,
			Kind:         string(item.Kind()),
			ThumbnailURL: thumbURL,
			MediaURL:     MediaURL(relDir, item.Name),
		}

		if item.Kind() == mediatypes.FileTypeVideo {
			li.DisplayWidth = opts.Spec.BoxWidth()
			li.DisplayHeight = opts.Spec.VideoHeight()
			if item.Size > largeVideoBytes {
				li.PosterURL = thumbURL
				li.Preload = "none"
			}
		}

		listing.Items = append(listing.Items, li)
	}

	if len(listing.Items) == 0 {
		listing.Empty = true
		listing.Message = EmptyMessage
	}

	return listing
}

var nameSeparators = regexp.MustCompile(`[^\w-]|_`)

// PrettyName turns a directory name such as "summer_2019-trip" into
// "Summer 2019-trip".
func PrettyName(name string) string {
	parts := nameSeparators.Split(name, -1)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		words = append(words, string(unicode.ToUpper(r))+p[size:])
	}
	if len(words) == 0 {
		return name
	}
	return strings.Join(words, " ")
}

// DirectoryTitle builds the page title for a relative directory path.
func DirectoryTitle(relDir string) string {
	var names []string
	for _, part := range strings.Split(relDir, "/") {
		if part == "" || part == "." {
			continue
		}
		names = append(names, PrettyName(part))
	}
	if len(names) == 0 {
		return RootTitle
	}
	return strings.Join(names, " | ")
}
