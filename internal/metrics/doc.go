// Package metrics provides Prometheus instrumentation for the gallery server.
//
// All metrics are prefixed with "gallery_" and registered on the default
// registry through promauto, so importing the package is enough to expose them.
//
// # Metric Categories
//
// HTTP: request totals, durations and in-flight requests, recorded by the
// middleware package.
//
// Path resolution: PathRejectionsTotal counts requests refused by the
// resolver, labelled by why (traversal segment, outside the root, missing).
//
// Scanner: operation counts and durations, items returned per listing, and
// entries skipped by reason (thumbnail files, non-media, camera raw).
//
// Thumbnails: cache hits and misses, generations by format and status,
// generation duration, fallbacks by reason (unsupported format, passthrough
// format, codec unavailable, video placeholder), and persist failures.
//
// Filesystem: retry counters for stale NFS file handles.
//
// Call InitializeMetrics once at startup so every label combination is
// exported from the first scrape.
package metrics
