package workers

import (
	"os"
	"runtime"
	"strconv"
)

// OverrideEnv names the environment variable that pins the async task pool size.
const OverrideEnv = "LUMINA_WORKERS"

// Count returns the number of workers for a given task profile.
// It respects container CPU limits via GOMAXPROCS.
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound work (frame decoding and scaling)
//   - 2.0 for I/O-bound work (gateway calls, source probes)
//
// The limit parameter caps the worker count. Use 0 for no limit.
// A positive integer in LUMINA_WORKERS overrides the computed value.
func Count(multiplier float64, limit int) int {
	if count, ok := override(); ok {
		return capAt(count, limit)
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if workers < 1 {
		workers = 1
	}
	return capAt(workers, limit)
}

func override() (int, bool) {
	raw := os.Getenv(OverrideEnv)
	if raw == "" {
		return 0, false
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count <= 0 {
		return 0, false
	}
	return count, true
}

func capAt(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}
