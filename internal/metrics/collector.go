package metrics

import (
	"sync"
	"time"

	"lumina/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current catalog statistics
type Stats struct {
	ItemsByType map[string]int
	UserItems   int
	Described   int
	Favorites   int
	Albums      int
	Sources     map[string]int // by status
}

// DBMetricsUpdater refreshes database gauges.
type DBMetricsUpdater interface {
	UpdateDBMetrics()
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	db            DBMetricsUpdater
	interval      time.Duration
	stopChan      chan struct{}
	done          chan struct{}
	stopOnce      sync.Once
}

// NewCollector creates a new metrics collector. db may be nil.
func NewCollector(provider StatsProvider, db DBMetricsUpdater, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		db:            db,
		interval:      interval,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop ends the collection loop and waits for it to exit. It must only be
// called after Start and is safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	<-c.done
}

func (c *Collector) collectLoop() {
	defer close(c.done)

	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.db != nil {
		c.db.UpdateDBMetrics()
	}

	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	for _, t := range mediaTypeLabels {
		MediaItemsTotal.WithLabelValues(t).Set(float64(stats.ItemsByType[t]))
	}
	for _, s := range sourceStatusLabels {
		SourcesTotal.WithLabelValues(s).Set(float64(stats.Sources[s]))
	}
	MediaUserItemsTotal.Set(float64(stats.UserItems))
	MediaDescribedTotal.Set(float64(stats.Described))
	MediaFavoritesTotal.Set(float64(stats.Favorites))
	AlbumsTotal.Set(float64(stats.Albums))

	logging.Debug("Metrics collected: user=%d, described=%d, favorites=%d, albums=%d",
		stats.UserItems, stats.Described, stats.Favorites, stats.Albums)
}
