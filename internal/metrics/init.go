package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
func InitializeMetrics() {
	for _, reason := range []string{"traversal", "outside_root", "not_found", "not_directory", "not_file"} {
		PathRejectionsTotal.WithLabelValues(reason)
	}

	for _, op := range []string{"scan"} {
		ScannerOperationsTotal.WithLabelValues(op, "success")
		ScannerOperationsTotal.WithLabelValues(op, "error")
		ScannerOperationDuration.WithLabelValues(op)
		ScannerItemsReturned.WithLabelValues(op)
	}

	for _, reason := range []string{"thumbnail", "hidden", "directory", "not_media", "raw", "unreadable"} {
		ScannerFilesSkipped.WithLabelValues(reason)
	}

	for _, format := range []string{"jpeg", "png", "gif"} {
		ThumbnailGenerationsTotal.WithLabelValues(format, "success")
		ThumbnailGenerationsTotal.WithLabelValues(format, "error")
		ThumbnailGenerationDuration.WithLabelValues(format)
	}

	for _, reason := range []string{"unsupported", "passthrough", "codec_unavailable", "placeholder"} {
		ThumbnailFallbacksTotal.WithLabelValues(reason)
	}

	for _, op := range []string{"stat", "open", "read"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}
}
