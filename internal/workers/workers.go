package workers

import (
	"os"
	"runtime"
	"strconv"

	"media-gallery/internal/logging"
)

// OverrideEnv names the environment variable that pins the worker count.
const OverrideEnv = "GALLERY_WARM_WORKERS"

// Count returns a worker count of multiplier workers per usable CPU, capped
// at limit (0 means uncapped). GOMAXPROCS is used instead of NumCPU so
// container CPU quotas are respected. A positive GALLERY_WARM_WORKERS value
// replaces the calculation but is still capped.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(OverrideEnv); override != "" {
		count, err := strconv.Atoi(override)
		if err == nil && count > 0 {
			return capAt(count, limit)
		}
		logging.Warn("Ignoring invalid %s value %q", OverrideEnv, override)
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if workers < 1 {
		workers = 1
	}
	return capAt(workers, limit)
}

// Resolve prefers an explicit positive request (for example a command-line
// flag) and otherwise falls back to ForMixed.
func Resolve(requested, limit int) int {
	if requested > 0 {
		return capAt(requested, limit)
	}
	return ForMixed(limit)
}

func capAt(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

// ForMixed returns worker count for mixed tasks such as thumbnail warming,
// which reads, decodes, resamples and writes (1.5 per CPU).
func ForMixed(limit int) int {
	return Count(1.5, limit)
}
