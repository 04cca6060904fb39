// Command gallery-warm pre-generates thumbnails for a whole gallery tree.
//
// The server creates thumbnails lazily on first request. Running this tool
// after adding a large batch of photos moves that cost out of the request
// path. It reads the same environment as the server (GALLERY_DIR,
// THUMBNAIL_SIZE, USE_VIPS, ...) and writes thumbnails exactly where the
// server would.
//
// Usage:
//
//	gallery-warm [-workers N] [gallery-dir]
//
// Hidden directories are skipped. Videos are skipped since they only ever
// get the placeholder icon. Images that cannot be thumbnailed are counted as
// fallbacks; the server keeps serving their originals.
//
// Environment:
//
//	GALLERY_WARM_WORKERS - worker count when -workers is not given
//	MEMORY_LIMIT         - pauses work while the heap is near this limit
//
// The exit status is 1 when any file failed or the run was interrupted.
package main
