package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-gallery/internal/logging"
	"media-gallery/internal/media"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/memory"
	"media-gallery/internal/startup"
	"media-gallery/internal/workers"

	"github.com/dustin/go-humanize"
)

func main() {
	os.Exit(run())
}

func run() int {
	workerCount := flag.Int("workers", 0, "Number of parallel workers (default: 1.5 per CPU, or "+workers.OverrideEnv+")")
	verbose := flag.Bool("v", false, "Log every thumbnail (same as LOG_LEVEL=debug)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gallery-warm [flags] [gallery-dir]\n\n")
		fmt.Fprintf(os.Stderr, "Pre-generates thumbnails for every image under the gallery directory.\n")
		fmt.Fprintf(os.Stderr, "Configuration is read from the same environment as the server.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	if flag.NArg() > 0 {
		os.Setenv("GALLERY_DIR", flag.Arg(0))
	}

	mem := memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}
	startup.LogMemoryConfig(mem.Configured, mem.Source, mem.GoMemLimit)

	if !config.ThumbnailsEnabled || !config.ThumbnailCacheWrite {
		logging.Fatal("Nothing to warm: THUMBNAILS_ENABLED and THUMBNAIL_CACHE_WRITE must both be true")
	}

	var vipsErr error
	if config.UseVips {
		vipsErr = media.InitVips()
		defer media.ShutdownVips()
	}
	startup.LogImageBackendInit(config.UseVips, vipsErr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start(ctx)

	detector := mediatypes.DefaultDetector()
	w := &warmer{
		root:    config.GalleryDir,
		spec:    media.NewSizeSpec(config.ThumbnailSize),
		scanner: media.NewScanner(detector),
		cache:   media.NewThumbnailCache(media.NewGenerator(true, config.UseVips), detector, true),
		monitor: monitor,
		workers: workers.Resolve(*workerCount, 0),
	}

	logging.Info("")
	logging.Info("Warming thumbnails in %s with %d workers", w.root, w.workers)

	start := time.Now()
	sum, err := w.run(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SUMMARY")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Directories: %s", humanize.Comma(sum.dirs.Load()))
	logging.Info("  Generated:   %s (%s written)", humanize.Comma(sum.generated.Load()), humanize.Bytes(uint64(sum.bytes.Load())))
	logging.Info("  Cached:      %s", humanize.Comma(sum.cached.Load()))
	logging.Info("  Fallback:    %s", humanize.Comma(sum.fallback.Load()))
	logging.Info("  Failed:      %s", humanize.Comma(sum.failed.Load()))
	if n := sum.throttled.Load(); n > 0 {
		logging.Info("  Throttled:   %s (memory pressure)", humanize.Comma(n))
	}
	logging.Info("  Elapsed:     %v", elapsed)

	if err != nil {
		logging.Error("Warm-up stopped: %v", err)
		return 1
	}
	if sum.failed.Load() > 0 {
		return 1
	}
	return 0
}
