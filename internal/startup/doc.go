// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration is loaded from environment variables via [LoadConfig]. A
// .env file in the working directory is read first and never overrides
// variables that are already set.
//
//   - GALLERY_DIR: Root of the browsable gallery (default: .)
//   - THUMBNAIL_SIZE: Thumbnail size parameter in pixels (default: 300)
//   - BACKGROUND_COLOR: Page background passed to the listing (default: #000000)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - THUMBNAILS_ENABLED: Generate thumbnails; false serves originals (default: true)
//   - THUMBNAIL_CACHE_WRITE: Persist generated thumbnails next to originals (default: true)
//   - USE_VIPS: Resample with libvips instead of pure Go (default: false)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log media and thumbnail requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// Memory limits (GOMEMLIMIT, MEMORY_LIMIT, MEMORY_RATIO) are applied by the
// memory package before LoadConfig runs; [LogMemoryConfig] reports the result.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
//   - [LogImageBackendInit]: Which resampling backend serves thumbnails
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
package startup
