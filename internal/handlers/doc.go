// Package handlers provides the HTTP boundary of the gallery.
//
// It includes handlers for:
//   - Directory listings as JSON (/api/gallery)
//   - Thumbnails generated on demand (/api/thumbnail)
//   - Original files and persisted thumbnails (/media/...)
//   - Health, liveness and readiness probes, and build information
//
// Lookup failures in the not-found family map to 404 without exposing paths.
package handlers
