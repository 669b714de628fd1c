package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"lumina/internal/logging"
	"lumina/internal/metrics"
)

// RetryConfig configures retry behavior for filesystem operations.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the defaults used for resource files.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// sleep is replaced in tests.
var sleep = time.Sleep

// IsStale reports whether err carries a stale file handle errno.
func IsStale(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.ESTALE
}

// Retry runs fn until it succeeds, fails with a non-stale error, or the
// retries run out. op labels logs and metrics.
func Retry[T any](op, path string, config RetryConfig, fn func() (T, error)) (T, error) {
	backoff := config.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		v, err := fn()
		if err == nil {
			if attempt > 0 {
				logging.Info("%s succeeded on retry %d for %s", op, attempt, path)
				metrics.FilesystemRetriesTotal.WithLabelValues(op, "success").Inc()
			}
			return v, nil
		}
		lastErr = err
		if !IsStale(err) {
			var zero T
			return zero, err
		}

		metrics.FilesystemStaleErrors.WithLabelValues(op).Inc()
		if attempt < config.MaxRetries {
			logging.Debug("%s stale file handle for %s, retrying in %v (attempt %d/%d)",
				op, path, backoff, attempt+1, config.MaxRetries)
			sleep(backoff)
			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	logging.Warn("%s failed after %d retries for %s: %v", op, config.MaxRetries, path, lastErr)
	metrics.FilesystemRetriesTotal.WithLabelValues(op, "failure").Inc()
	var zero T
	return zero, lastErr
}

// Open opens path for reading.
func Open(path string, config RetryConfig) (*os.File, error) {
	return Retry("open", path, config, func() (*os.File, error) {
		return os.Open(path)
	})
}

// Stat returns the file info of path.
func Stat(path string, config RetryConfig) (os.FileInfo, error) {
	return Retry("stat", path, config, func() (os.FileInfo, error) {
		return os.Stat(path)
	})
}

// Rename moves oldpath to newpath.
func Rename(oldpath, newpath string, config RetryConfig) error {
	_, err := Retry("rename", newpath, config, func() (struct{}, error) {
		return struct{}{}, os.Rename(oldpath, newpath)
	})
	return err
}

// Remove deletes path. A missing file is not an error.
func Remove(path string, config RetryConfig) error {
	_, err := Retry("remove", path, config, func() (struct{}, error) {
		err := os.Remove(path)
		if errors.Is(err, os.ErrNotExist) {
			return struct{}{}, nil
		}
		return struct{}{}, err
	})
	return err
}
