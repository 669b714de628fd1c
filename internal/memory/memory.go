package memory

import (
	"math"
	"runtime/debug"
	"strconv"

	"lumina/internal/logging"
	"lumina/internal/metrics"
)

// DefaultRatio is the share of the container limit given to the Go heap.
const DefaultRatio = 0.80

// Source names where a configured limit came from.
const (
	SourceNone        = "none"
	SourceGoMemLimit  = "GOMEMLIMIT"
	SourceMemoryLimit = "MEMORY_LIMIT"
)

// Result describes the outcome of Configure.
type Result struct {
	Configured     bool
	Source         string
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// setLimit is swapped in tests so they do not change the process limit.
var setLimit = debug.SetMemoryLimit

// Configure applies the soft memory limit described by the environment.
// getenv is usually os.Getenv. Call it before the catalog is loaded.
func Configure(getenv func(string) string) Result {
	result := configure(getenv)
	metrics.GoMemoryLimitBytes.Set(float64(result.GoMemLimit))
	return result
}

func configure(getenv func(string) string) Result {
	if v := getenv("GOMEMLIMIT"); v != "" {
		result := Result{Source: SourceGoMemLimit}
		if limit := setLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", v)
		return result
	}

	raw := getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("MEMORY_LIMIT not set, leaving GOMEMLIMIT unconfigured")
		return Result{Source: SourceNone}
	}
	containerLimit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || containerLimit <= 0 {
		logging.Warn("Ignoring invalid MEMORY_LIMIT %q", raw)
		return Result{Source: SourceNone}
	}

	ratio := parseRatio(getenv("MEMORY_RATIO"))
	limit := int64(float64(containerLimit) * ratio)
	setLimit(limit)

	logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of %s container limit)",
		FormatBytes(limit), ratio*100, FormatBytes(containerLimit))

	return Result{
		Configured:     true,
		Source:         SourceMemoryLimit,
		ContainerLimit: containerLimit,
		GoMemLimit:     limit,
		Ratio:          ratio,
	}
}

func parseRatio(raw string) float64 {
	if raw == "" {
		return DefaultRatio
	}
	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil || ratio <= 0 || ratio > 1 {
		logging.Warn("MEMORY_RATIO %q must be in (0, 1], using %.2f", raw, DefaultRatio)
		return DefaultRatio
	}
	return ratio
}

// FormatBytes renders b with binary units, e.g. "1.5 GiB".
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
