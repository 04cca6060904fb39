package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"media-gallery/internal/logging"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

// Set at build time with -ldflags "-X media-gallery/internal/startup.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo is served by /version.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo reports the build variables and the running platform.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo is one method/path pair from the router.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration. It is built once by
// LoadConfig and handed to constructors; nothing reads it globally.
type Config struct {
	GalleryDir      string
	ThumbnailSize   int
	BackgroundColor string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	LogStaticFiles  bool
	LogHealthChecks bool

	// ThumbnailsEnabled false serves originals in place of thumbnails.
	ThumbnailsEnabled bool
	// ThumbnailCacheWrite false keeps generated thumbnails in memory only.
	ThumbnailCacheWrite bool
	UseVips             bool
}

// DefaultThumbnailSize is used when THUMBNAIL_SIZE is unset or invalid.
const DefaultThumbnailSize = 300

// LoadConfig loads and validates configuration from environment variables.
// A .env file in the working directory, if present, seeds variables that are
// not already set.
func LoadConfig() (*Config, error) {
	dotenvErr := loadDotEnv(".env")

	printBanner()
	logSystemInfo()

	section("CONFIGURATION")

	if dotenvErr != nil {
		logging.Warn("  Ignoring .env: %v", dotenvErr)
	}

	config := &Config{
		GalleryDir:          getEnv("GALLERY_DIR", "."),
		ThumbnailSize:       getEnvInt("THUMBNAIL_SIZE", DefaultThumbnailSize),
		BackgroundColor:     getEnv("BACKGROUND_COLOR", "#000000"),
		Port:                getEnv("PORT", "8080"),
		MetricsPort:         getEnv("METRICS_PORT", "9090"),
		MetricsEnabled:      getEnvBool("METRICS_ENABLED", true),
		LogStaticFiles:      getEnvBool("LOG_STATIC_FILES", false),
		LogHealthChecks:     getEnvBool("LOG_HEALTH_CHECKS", true),
		ThumbnailsEnabled:   getEnvBool("THUMBNAILS_ENABLED", true),
		ThumbnailCacheWrite: getEnvBool("THUMBNAIL_CACHE_WRITE", true),
		UseVips:             getEnvBool("USE_VIPS", false),
	}

	if config.ThumbnailSize <= 0 {
		logging.Warn("  Invalid THUMBNAIL_SIZE %d, using default: %d", config.ThumbnailSize, DefaultThumbnailSize)
		config.ThumbnailSize = DefaultThumbnailSize
	}

	logging.Info("  GALLERY_DIR:           %s", config.GalleryDir)
	logging.Info("  THUMBNAIL_SIZE:        %d", config.ThumbnailSize)
	logging.Info("  BACKGROUND_COLOR:      %s", config.BackgroundColor)
	logging.Info("  PORT:                  %s", config.Port)
	logging.Info("  METRICS_PORT:          %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:       %v", config.MetricsEnabled)
	logging.Info("  THUMBNAILS_ENABLED:    %v", config.ThumbnailsEnabled)
	logging.Info("  THUMBNAIL_CACHE_WRITE: %v", config.ThumbnailCacheWrite)
	logging.Info("  USE_VIPS:              %v", config.UseVips)
	logging.Info("  LOG_STATIC_FILES:      %v", config.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:     %v", config.LogHealthChecks)
	logging.Info("  LOG_LEVEL:             %s", logging.GetLevel())

	logging.Info("")
	section("DIRECTORY SETUP")

	galleryDir, err := filepath.Abs(config.GalleryDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve gallery directory path: %w", err)
	}
	config.GalleryDir = galleryDir
	logging.Info("  Gallery directory (absolute): %s", galleryDir)

	if err := checkGalleryDir(galleryDir); err != nil {
		return nil, fmt.Errorf("gallery directory error: %w", err)
	}

	if config.ThumbnailCacheWrite {
		if err := testWriteAccess(galleryDir); err != nil {
			logging.Warn("  Gallery directory is not writable: %v", err)
			logging.Warn("  Thumbnails will be generated on every request")
		} else {
			logging.Info("  [OK] Gallery directory is writable")
		}
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Thumbnails:      %s", enabledString(config.ThumbnailsEnabled))
	logging.Info("    Thumbnail cache: %s", enabledString(config.ThumbnailsEnabled && config.ThumbnailCacheWrite))
	logging.Info("    Metrics:         %s", enabledString(config.MetricsEnabled))

	return config, nil
}

// loadDotEnv seeds the environment from path. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogImageBackendInit logs which resampling backend serves thumbnails.
func LogImageBackendInit(useVips bool, vipsErr error) {
	logging.Info("")
	section("IMAGE BACKEND")

	switch {
	case !useVips:
		logging.Info("  [OK] Using pure Go resampling (imaging)")
	case vipsErr != nil:
		logging.Warn("  libvips failed to start: %v", vipsErr)
		logging.Warn("  Falling back to pure Go resampling (imaging)")
	default:
		logging.Info("  [OK] Using libvips resampling")
	}
}

// LogMemoryConfig logs the outcome of GOMEMLIMIT configuration.
func LogMemoryConfig(configured bool, source string, limit int64) {
	if !configured {
		logging.Debug("  Memory limit: not configured")
		return
	}
	logging.Info("  Memory limit: %s (from %s)", humanize.IBytes(uint64(limit)), source)
}

// GetRoutes lists every method/path pair registered on router, in
// registration order. Routes without a method matcher report "*".
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		for _, m := range methods {
			routes = append(routes, RouteInfo{Method: m, Path: tpl, Name: route.GetName()})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs request-log filtering and, at debug level, the route
// table grouped by first path segment.
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	section("HTTP SERVER SETUP")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}
		logRouteTable(routes)
	}

	logging.Info("  Request log:")
	logging.Info("    Media and thumbnail requests: %s (LOG_STATIC_FILES)", onOff(logStaticFiles))
	logging.Info("    Health checks:                %s (LOG_HEALTH_CHECKS)", onOff(logHealthChecks))
}

func logRouteTable(routes []RouteInfo) {
	byGroup := make(map[string][]string)
	for _, r := range routes {
		g := getRouteGroup(r.Path)
		if g == "" {
			g = "root"
		}
		byGroup[g] = append(byGroup[g], fmt.Sprintf("%-6s %s", r.Method, r.Path))
	}

	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	logging.Debug("  Registered routes (%d total):", len(routes))
	for _, g := range groups {
		logging.Debug("  [%s]", g)
		for _, line := range byGroup[g] {
			logging.Debug("    %s", line)
		}
	}
}

// getRouteGroup returns the first path segment, or "api/<name>" for API
// routes.
func getRouteGroup(path string) string {
	first, rest, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if first == "api" && rest != "" {
		name, _, _ := strings.Cut(rest, "/")
		return "api/" + name
	}
	return first
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// ServerConfig holds what LogServerStarted reports.
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs the listening endpoints once the server is ready.
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	section("SERVER STARTED")
	logging.Info("  Ready in %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Gallery API:  http://localhost:%s/api/gallery?dir=", config.Port)
	logging.Info("  Originals:    http://localhost:%s/media/", config.Port)
	if config.MetricsEnabled {
		logging.Info("  Metrics:      http://localhost:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("  Metrics:      DISABLED (METRICS_ENABLED=false)")
	}
	logging.Info("  Listening on 0.0.0.0; press Ctrl+C to stop")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	section(fmt.Sprintf("SHUTDOWN (%s)", signal))
}

// LogShutdownStep logs a shutdown step at debug level.
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

const rule = "------------------------------------------------------------"

// section logs a banner-style section heading.
func section(title string) {
	logging.Info(rule)
	logging.Info("%s", title)
	logging.Info(rule)
}

func printBanner() {
	banner := `
------------------------------------------------------------
    __  ___         ___          ______      ____
   /  |/  /__  ____/ (_)___ _   / ____/___ _/ / /__  _______  __
  / /|_/ / _ \/ __  / / __ '/  / / __/ __ '/ / / _ \/ ___/ / / /
 / /  / /  __/ /_/ / / /_/ /  / /_/ / /_/ / / /  __/ /  / /_/ /
/_/  /_/\___/\__,_/_/\__,_/   \____/\__,_/_/_/\___/_/   \__, /
                                                       /____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	section("SYSTEM INFORMATION")
	procs, cpus := runtime.GOMAXPROCS(0), runtime.NumCPU()
	logging.Info("  Runtime: %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if procs < cpus {
		logging.Info("  CPUs:    %d usable of %d (container limit)", procs, cpus)
	} else {
		logging.Info("  CPUs:    %d", cpus)
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir: %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:    %s", hostname)
		}
	}

	logging.Info("")
}

func checkGalleryDir(path string) error {
	logging.Debug("  Checking gallery directory: %s", path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")

	if logging.IsDebugEnabled() {
		if entries, err := os.ReadDir(path); err == nil {
			fileCount, dirCount := 0, 0
			for _, e := range entries {
				if e.IsDir() {
					dirCount++
				} else {
					fileCount++
				}
			}
			logging.Debug("    Contents: %d files, %d directories (top level)", fileCount, dirCount)
		}
	}

	return nil
}

func testWriteAccess(dir string) error {
	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		logging.Warn("failed to remove write probe %s: %v", name, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
