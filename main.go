package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-gallery/internal/handlers"
	"media-gallery/internal/logging"
	"media-gallery/internal/media"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/memory"
	"media-gallery/internal/metrics"
	"media-gallery/internal/middleware"
	"media-gallery/internal/startup"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Before anything allocates heavily.
	mem := memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	startup.LogMemoryConfig(mem.Configured, mem.Source, mem.GoMemLimit)

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	useVips := false
	if config.UseVips && config.ThumbnailsEnabled {
		vipsErr := media.InitVips()
		startup.LogImageBackendInit(true, vipsErr)
		useVips = vipsErr == nil
	} else {
		startup.LogImageBackendInit(false, nil)
	}

	detector := mediatypes.DefaultDetector()
	scanner := media.NewScanner(detector)
	cache := media.NewThumbnailCache(
		media.NewGenerator(config.ThumbnailsEnabled, useVips),
		detector,
		config.ThumbnailCacheWrite,
	)

	h := handlers.New(config, scanner, cache)

	router := setupRouter(h)
	router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	compression, err := middleware.Compression(middleware.DefaultCompressionConfig())
	if err != nil {
		startup.LogFatal("Compression setup failed: %v", err)
	}
	handler := compression(loggedHandler)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Originals can be large videos.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(config.MetricsPort, h)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go handleShutdown(srv, metricsSrv, useVips)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET", "HEAD")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET", "HEAD")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/gallery", h.ListGallery).Methods("GET", "HEAD")
	api.HandleFunc("/thumbnail", h.GetThumbnail).Methods("GET", "HEAD")

	r.HandleFunc("/media/{path:.*}", h.ServeMedia).Methods("GET", "HEAD")

	return r
}

func newMetricsServer(port string, h *handlers.Handlers) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", h.MetricsHandler())
	metricsMux.HandleFunc("/health", h.LivenessCheck)

	return &http.Server{
		Addr:         ":" + port,
		Handler:      metricsMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
}

func handleShutdown(srv, metricsSrv *http.Server, vipsStarted bool) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if vipsStarted {
		startup.LogShutdownStep("Shutting down libvips")
		media.ShutdownVips()
		startup.LogShutdownStepComplete("libvips stopped")
	}

	startup.LogShutdownComplete()
}
