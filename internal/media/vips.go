package media

import (
	"fmt"
	"sync"

	"media-gallery/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// vipsLogSettings maps the application log level onto the libvips log
// threshold and a handler that forwards messages into our logger.
func vipsLogSettings(level logging.LogLevel) (vips.LogLevel, func(string, vips.LogLevel, string)) {
	forward := func(domain string, lvl vips.LogLevel, msg string) {
		switch lvl {
		case vips.LogLevelError, vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}

	switch level {
	case logging.LevelDebug:
		return vips.LogLevelDebug, forward
	case logging.LevelInfo:
		return vips.LogLevelWarning, forward
	case logging.LevelWarn:
		return vips.LogLevelError, forward
	default:
		return vips.LogLevelCritical, forward
	}
}

// InitVips starts libvips. It is safe to call more than once; libvips cannot
// be restarted after ShutdownVips in the same process.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Logging must be configured before Startup to take effect.
	vips.LoggingSettings(vipsLogSettings(logging.GetLevel()))

	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips releases libvips resources.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// thumbnailWithVips runs the resample and crop pipeline through libvips and
// exports in the codec's format. A failed crop leaves the resampled image as
// the result.
func thumbnailWithVips(data []byte, codec Codec, spec SizeSpec) ([]byte, error) {
	if !IsVipsAvailable() {
		return nil, ErrCodecUnavailable
	}

	ref, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("%w: vips load: %v", ErrUnsupportedFormat, err)
	}
	defer ref.Close()

	if err := ref.AutoRotate(); err != nil {
		logging.Debug("vips auto-rotate failed: %v", err)
	}

	w, h := ref.Width(), ref.Height()
	newW, newH := ComputeSize(w, h, spec)
	if err := ref.ResizeWithVScale(float64(newW)/float64(w), float64(newH)/float64(h), vips.KernelLinear); err != nil {
		return nil, fmt.Errorf("vips resize: %w", err)
	}

	cropW, cropH := cropSize(ref.Width(), ref.Height(), spec)
	left := (ref.Width() - cropW) / 2
	top := (ref.Height() - cropH) / 2
	if err := ref.ExtractArea(left, top, cropW, cropH); err != nil {
		logging.Warn("vips crop failed, keeping uncropped %dx%d thumbnail: %v", ref.Width(), ref.Height(), err)
	}

	var out []byte
	switch codec.Name() {
	case "jpeg":
		ep := vips.NewJpegExportParams()
		ep.Quality = 75
		out, _, err = ref.ExportJpeg(ep)
	case "png":
		out, _, err = ref.ExportPng(vips.NewPngExportParams())
	case "gif":
		out, _, err = ref.ExportGIF(vips.NewGifExportParams())
	default:
		return nil, ErrPassthrough
	}
	if err != nil {
		return nil, fmt.Errorf("vips export %s: %w", codec.Name(), err)
	}
	return out, nil
}
