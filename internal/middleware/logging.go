package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lumina/internal/logging"
)

// RequestIDHeader carries the id that ties a client request to its access
// log entry.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 64

// responseWriter captures the status code and body size of a response.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingConfig holds configuration for the access log middleware.
type LoggingConfig struct {
	// SkipPaths are path prefixes that are never logged.
	SkipPaths []string
	// BlobPrefix is the path prefix of imported file downloads, logged only
	// when LogStaticFiles is set.
	BlobPrefix      string
	LogStaticFiles  bool
	LogHealthChecks bool
	// Log receives the entries. Nil uses the process logger named "http".
	Log *zap.Logger
}

// DefaultLoggingConfig returns the default configuration
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		BlobPrefix:      "/api/blob/",
		LogHealthChecks: true,
	}
}

var healthCheckPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// sanitizeLogField removes control characters that could forge log lines or
// inject terminal escapes. Newlines become spaces; tabs are kept.
func sanitizeLogField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		case r < 0x20 && r != '\t':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Logger returns middleware that tags every request with a request id and
// writes one structured access entry per logged request.
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	log := config.Log
	if log == nil {
		log = logging.Logger().Named("http")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestID(r)
			w.Header().Set(RequestIDHeader, id)

			if shouldSkip(r.URL.Path, config) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			fields := accessFields(id, r, wrapped, time.Since(start))
			switch {
			case wrapped.statusCode >= 500:
				log.Error("request", fields...)
			case wrapped.statusCode >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
		})
	}
}

// requestID keeps a well-formed id supplied by the client, otherwise mints one.
func requestID(r *http.Request) string {
	id := r.Header.Get(RequestIDHeader)
	if id == "" || len(id) > maxRequestIDLen || sanitizeLogField(id) != id || strings.ContainsAny(id, " \t") {
		return uuid.NewString()
	}
	return id
}

func accessFields(id string, r *http.Request, rw *responseWriter, duration time.Duration) []zap.Field {
	fields := []zap.Field{
		zap.String("request_id", id),
		zap.String("client_ip", sanitizeLogField(getClientIP(r))),
		zap.String("method", sanitizeLogField(r.Method)),
		zap.String("path", sanitizeLogField(r.URL.Path)),
		zap.Int("status", rw.statusCode),
		zap.Int64("bytes", rw.bytesWritten),
		zap.Int64("duration_ms", duration.Milliseconds()),
	}
	if q := r.URL.RawQuery; q != "" {
		fields = append(fields, zap.String("query", sanitizeLogField(q)))
	}
	if enc := rw.Header().Get("Content-Encoding"); enc != "" {
		fields = append(fields, zap.String("encoding", enc))
	}
	if ua := r.Header.Get("User-Agent"); ua != "" {
		fields = append(fields, zap.String("user_agent", sanitizeLogField(ua)))
	}
	return fields
}

func shouldSkip(path string, config LoggingConfig) bool {
	for _, skipPath := range config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}

	if !config.LogHealthChecks && healthCheckPaths[path] {
		return true
	}

	return !config.LogStaticFiles && config.BlobPrefix != "" && strings.HasPrefix(path, config.BlobPrefix)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
