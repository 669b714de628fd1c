// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration is read from environment variables by [LoadConfig]. An env
// file (LUMINA_ENV_FILE, default .env) is loaded first with godotenv when it
// exists; variables already set in the environment win.
//
//   - PORT: HTTP API port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - DATABASE_DIR: Directory of the SQLite snapshot store (default: /database)
//   - CACHE_DIR: Directory holding imported files under uploads/ (default: /cache)
//   - MAX_UPLOAD_MB: Maximum size of one import request (default: 512)
//   - GEMINI_API_KEY: Enables AI captions and covers when set
//   - GEMINI_TEXT_MODEL, GEMINI_IMAGE_MODEL: Model names
//   - GEMINI_RPM: Requests per minute allowed to Gemini (default: 30)
//   - GEMINI_TIMEOUT: Per-call timeout as Go duration (default: 30s)
//   - LOG_LEVEL, LOG_FORMAT: See package logging
//   - LOG_STATIC_FILES: Log blob requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
//   - [LogDatabaseInit], [LogCatalogLoaded], [LogResourceSweep]
//   - [LogInsightInit]: Gemini configuration and FFmpeg availability
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted], [LogShutdownInitiated], [LogShutdownComplete]
package startup
