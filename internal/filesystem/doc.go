/*
Package filesystem wraps the handful of filesystem operations the gallery
depends on.

# Retrying on stale NFS handles

Galleries are often served from NFS mounts, where a file replaced on the
server can yield ESTALE (stale file handle) on the client. StatWithRetry,
OpenWithRetry and ReadFileWithRetry retry only that error, with exponential
backoff capped by RetryConfig.MaxBackoff. Any other error is returned on the
first attempt.

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

# Atomic writes

WriteFileAtomic writes to a temporary file beside the target and renames it
into place. Thumbnails are written this way so a listing or a concurrent
request never reads a half-written thumbnail. Temporary names start with a
dot, which the scanner skips.
*/
package filesystem
