package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"media-gallery/internal/logging"
	"media-gallery/internal/media"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeLookupError maps the not-found family to 404 and anything else to 500.
// Internal details never reach the client.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, media.ErrNotFound) {
		writeJSONError(w, "not found", http.StatusNotFound)
		return
	}
	logging.Error("%s %s: %v", r.Method, r.URL.Path, err)
	writeJSONError(w, "internal server error", http.StatusInternalServerError)
}

// cleanRelDir normalizes an already resolved request directory for use in
// URLs and titles. The requested spelling is kept so symlinked aliases stay
// under their own name.
func cleanRelDir(dir string) string {
	return strings.Trim(path.Clean("/"+strings.ReplaceAll(dir, `\`, "/")), "/")
}
