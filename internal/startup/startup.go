package startup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"lumina/internal/logging"
	"lumina/internal/media"
	"lumina/internal/memory"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
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

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	DatabaseDir     string
	CacheDir        string
	LogStaticFiles  bool
	LogHealthChecks bool
	MaxUploadBytes  int64

	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string
	GeminiRPM        int
	GeminiTimeout    time.Duration

	// Derived paths
	DatabasePath string
	UploadDir    string

	// Feature flags based on environment
	FramesEnabled bool
}

// InsightEnabled reports whether a Gemini API key is configured.
func (c *Config) InsightEnabled() bool {
	return c.GeminiAPIKey != ""
}

// DefaultEnvFile is loaded when LUMINA_ENV_FILE is not set.
const DefaultEnvFile = ".env"

// LoadEnvFile loads variables from an env file without overriding variables
// already set in the process environment. A missing file is not an error.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("error loading %s: %w", path, err)
	}
	return true, nil
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	envFile := getEnv("LUMINA_ENV_FILE", DefaultEnvFile)
	envLoaded, err := LoadEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	printBanner()
	logSystemInfo()

	section("CONFIGURATION")

	if envLoaded {
		logging.Info("  Loaded environment from %s", envFile)
	}

	cacheDir := getEnv("CACHE_DIR", "/cache")
	databaseDir := getEnv("DATABASE_DIR", "/database")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	maxUploadMB := getEnvInt("MAX_UPLOAD_MB", 512)
	apiKey := getEnv("GEMINI_API_KEY", "")
	textModel := getEnv("GEMINI_TEXT_MODEL", "gemini-2.0-flash")
	imageModel := getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image")
	rpm := getEnvInt("GEMINI_RPM", 30)
	timeoutStr := getEnv("GEMINI_TIMEOUT", "30s")

	logging.Info("  CACHE_DIR:           %s", cacheDir)
	logging.Info("  DATABASE_DIR:        %s", databaseDir)
	logging.Info("  PORT:                %s", port)
	logging.Info("  METRICS_PORT:        %s", metricsPort)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  LOG_STATIC_FILES:    %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", logHealthChecks)
	logging.Info("  MAX_UPLOAD_MB:       %d", maxUploadMB)
	logging.Info("  GEMINI_API_KEY:      %s", maskSecret(apiKey))
	logging.Info("  GEMINI_TEXT_MODEL:   %s", textModel)
	logging.Info("  GEMINI_IMAGE_MODEL:  %s", imageModel)
	logging.Info("  GEMINI_RPM:          %d", rpm)
	logging.Info("  GEMINI_TIMEOUT:      %s", timeoutStr)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		logging.Warn("  Invalid GEMINI_TIMEOUT, using default: 30s")
		timeout = 30 * time.Second
	}
	if maxUploadMB <= 0 {
		logging.Warn("  Invalid MAX_UPLOAD_MB, using default: 512")
		maxUploadMB = 512
	}
	if rpm <= 0 {
		logging.Warn("  Invalid GEMINI_RPM, using default: 30")
		rpm = 30
	}

	// Resolve paths
	section("DIRECTORY SETUP")

	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", cacheDir)

	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	logging.Info("  Database directory (absolute): %s", databaseDir)

	config := &Config{
		Port:             port,
		MetricsPort:      metricsPort,
		MetricsEnabled:   metricsEnabled,
		DatabaseDir:      databaseDir,
		CacheDir:         cacheDir,
		LogStaticFiles:   logStaticFiles,
		LogHealthChecks:  logHealthChecks,
		MaxUploadBytes:   int64(maxUploadMB) << 20,
		GeminiAPIKey:     apiKey,
		GeminiTextModel:  textModel,
		GeminiImageModel: imageModel,
		GeminiRPM:        rpm,
		GeminiTimeout:    timeout,
		DatabasePath:     filepath.Join(databaseDir, "lumina.db"),
		UploadDir:        filepath.Join(cacheDir, "uploads"),
	}

	// Ensure base database directory exists (required for database)
	if err := ensureDirectory(databaseDir, "database"); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}

	// Test write access for database (required)
	logging.Debug("  Testing database directory write access...")
	if err := testWriteAccess(databaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable (required for database): %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	// Imported files live under the cache directory (required for import)
	if err := ensureDirectory(config.UploadDir, "uploads"); err != nil {
		return nil, fmt.Errorf("upload directory error: %w", err)
	}
	if err := testWriteAccess(config.UploadDir); err != nil {
		return nil, fmt.Errorf("upload directory is not writable (required for import): %w", err)
	}
	logging.Info("  [OK] Upload directory is writable")

	config.FramesEnabled = media.NewFFmpegSampler().Available()
	if config.FramesEnabled {
		logFFmpegVersion()
	}

	// Summary
	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Database:     ENABLED (required)")
	logging.Info("    Import:       ENABLED (max %s per request)", memory.FormatBytes(config.MaxUploadBytes))
	logging.Info("    AI insight:   %s", enabledString(config.InsightEnabled()))
	logging.Info("    AI covers:    %s", enabledString(config.InsightEnabled() && config.FramesEnabled))
	logging.Info("    Metrics:      %s", enabledString(config.MetricsEnabled))

	return config, nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// maskSecret hides all but the last four characters of a secret.
func maskSecret(s string) string {
	switch {
	case s == "":
		return "(not set)"
	case len(s) <= 4:
		return "****"
	default:
		return "****" + s[len(s)-4:]
	}
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	section("DATABASE INITIALIZATION")
	logging.Info("  [OK] Database initialized in %v", duration)
}

// LogCatalogLoaded logs the restored catalog
func LogCatalogLoaded(items, userItems, albums, sources int, duration time.Duration) {
	section("CATALOG")
	logging.Info("  Items:    %d (%d imported or registered)", items, userItems)
	logging.Info("  Albums:   %d", albums)
	logging.Info("  Sources:  %d", sources)
	logging.Info("  [OK] Catalog restored in %v", duration)
}

// LogResourceSweep logs how many orphaned upload files were removed
func LogResourceSweep(kept, removed int) {
	if removed > 0 {
		logging.Info("  Removed %d orphaned upload files", removed)
	}
	logging.Info("  [OK] %d upload files in use", kept)
}

// LogInsightInit logs the AI gateway configuration
func LogInsightInit(config *Config) {
	section("AI INSIGHT GATEWAY")

	if !config.InsightEnabled() {
		logging.Warn("  GEMINI_API_KEY not set")
		logging.Warn("  Captions will use the fixed fallback text, covers are disabled")
		return
	}

	logging.Info("  Text model:   %s", config.GeminiTextModel)
	logging.Info("  Image model:  %s", config.GeminiImageModel)
	logging.Info("  Rate limit:   %d requests/minute", config.GeminiRPM)
	logging.Info("  Timeout:      %v", config.GeminiTimeout)
	if !config.FramesEnabled {
		logging.Warn("  FFmpeg not available, imported videos keep the placeholder thumbnail")
	}
	logging.Info("  [OK] Gemini client ready")
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., subrouter prefixes)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	section("HTTP SERVER SETUP")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Blob request logging: ON")
	} else {
		logging.Info("    Blob request logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	// Special handling for API routes
	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	section("SERVER STARTED")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    API:           http://0.0.0.0:%s/api", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    API:           http://localhost:%s/api", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://localhost:%s/metrics", config.MetricsPort)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info(rule)
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	section("SHUTDOWN INITIATED (received %s)", signal)
}

// LogShutdownStep logs a shutdown step
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

// Helper functions

const rule = "------------------------------------------------------------"

// section opens a titled block of startup output.
func section(format string, args ...interface{}) {
	logging.Info("")
	logging.Info(rule)
	logging.Info(format, args...)
	logging.Info(rule)
}

func printBanner() {
	banner := `
------------------------------------------------------------
    __                    _
   / /   __  ______ ___  (_)___  ____ _
  / /   / / / / __ '__ \/ / __ \/ __ '/
 / /___/ /_/ / / / / / / / / / / /_/ /
/_____/\__,_/_/ /_/ /_/_/_/ /_/\__,_/

        Smart TV media gallery
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
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func logFFmpegVersion() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, "ffmpeg", "-version").Output()
	if err != nil {
		logging.Debug("  FFmpeg version unavailable: %v", err)
		return
	}
	if line, _, _ := strings.Cut(string(output), "\n"); line != "" {
		logging.Debug("  FFmpeg version: %s", strings.TrimSpace(line))
	}
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
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
