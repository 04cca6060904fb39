package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"media-gallery/internal/filesystem"
	"media-gallery/internal/logging"
	"media-gallery/internal/media"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/mux"
)

// ListGallery returns the listing for the directory named by the dir query
// parameter, relative to the gallery root.
func (h *Handlers) ListGallery(w http.ResponseWriter, r *http.Request) {
	requested := r.URL.Query().Get("dir")

	dir, err := media.Resolve(h.root, requested)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	items, err := h.scanner.Scan(dir)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	listing := media.BuildListing(dir, cleanRelDir(requested), items, media.ListingOptions{
		Spec:            h.spec,
		BackgroundColor: h.background,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, listing)
}

// GetThumbnail returns the thumbnail for file t in directory dir, creating
// it on first request.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := query.Get("t")
	if name == "" {
		writeJSONError(w, "missing t parameter", http.StatusBadRequest)
		return
	}

	dir, err := media.Resolve(h.root, query.Get("dir"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	original, err := media.ResolveFile(dir, name)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	result, err := h.cache.GetOrCreate(r.Context(), original, h.spec)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logging.Debug("thumbnail request for %s abandoned: %v", original, err)
			return
		}
		writeLookupError(w, r, err)
		return
	}

	etag := fmt.Sprintf(`"%x"`, xxhash.Sum64(result.Data))

	w.Header().Set("ETag", etag)
	w.Header().Set("X-Thumbnail-Source", string(result.Source))
	w.Header().Set("Cache-Control", thumbnailCacheControl(result.Source))

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(result.Data); err != nil {
		logging.Debug("failed to write thumbnail for %s: %v", original, err)
	}
}

// Fallback responses may be replaced by a real thumbnail later, so browsers
// must revalidate them.
func thumbnailCacheControl(source media.Source) string {
	switch source {
	case media.SourceCache, media.SourceGenerated:
		return "public, max-age=86400"
	default:
		return "no-cache"
	}
}

// ServeMedia serves an original file (or a persisted thumbnail) under the
// gallery root. Directories are never served.
func (h *Handlers) ServeMedia(w http.ResponseWriter, r *http.Request) {
	requested := mux.Vars(r)["path"]
	dirPart, name := path.Split(requested)

	dir, err := media.Resolve(h.root, dirPart)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	target, err := media.ResolveFile(dir, name)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	retry := filesystem.DefaultRetryConfig()
	info, err := filesystem.StatWithRetry(target, retry)
	if err != nil || !info.Mode().IsRegular() {
		writeJSONError(w, "not found", http.StatusNotFound)
		return
	}

	mimeType, err := h.scanner.Detector().DetectFile(target)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	f, err := filesystem.OpenWithRetry(target, retry)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, name, info.ModTime(), f)
}
