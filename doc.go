// Command media-gallery serves a browsable image and video gallery rooted at
// a directory tree.
//
// Listings are JSON produced fresh from the filesystem on every request.
// Thumbnails are generated on first request, written next to their
// originals as <name>_thumb.<ext>, and served from disk afterwards. Videos
// get a static play-button placeholder instead of a thumbnail.
//
// # Startup
//
//  1. Memory limit: GOMEMLIMIT, or MEMORY_LIMIT scaled by MEMORY_RATIO
//  2. Configuration from the environment (and an optional .env file)
//  3. Optional libvips backend (USE_VIPS), falling back to pure Go
//  4. HTTP server with logging, metrics and gzip middleware
//  5. Metrics server on METRICS_PORT when METRICS_ENABLED
//
// # HTTP Surface
//
//	GET /api/gallery?dir=<rel>            listing JSON
//	GET /api/thumbnail?dir=<rel>&t=<name> thumbnail bytes
//	GET /media/<rel>/<name>               original file
//	GET /health, /healthz, /livez, /readyz
//	GET /version
//
// Paths outside GALLERY_DIR, including through symlinks, answer 404.
//
// # Graceful Shutdown
//
// SIGINT and SIGTERM stop the metrics server, then the main server (30s
// timeout), then libvips.
//
// See cmd/gallery-warm for pre-generating thumbnails offline.
package main
