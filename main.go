package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"lumina/internal/catalog"
	"lumina/internal/database"
	"lumina/internal/handlers"
	"lumina/internal/importer"
	"lumina/internal/insight"
	"lumina/internal/logging"
	"lumina/internal/media"
	"lumina/internal/memory"
	"lumina/internal/metrics"
	"lumina/internal/middleware"
	"lumina/internal/resources"
	"lumina/internal/session"
	"lumina/internal/sources"
	"lumina/internal/startup"
	"lumina/internal/tasks"
)

const (
	shutdownTimeout   = 30 * time.Second
	collectorInterval = time.Minute
)

// services are the long-lived components shut down on exit.
type services struct {
	srv        *http.Server
	metricsSrv *http.Server
	collector  *metrics.Collector
	tracker    *tasks.Tracker
	gateway    insight.Gateway
	db         *database.Database
}

func main() {
	startTime := time.Now()
	ctx := context.Background()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	metrics.InitializeMetrics()

	// Size the heap limit from the container limit, env file included
	memory.Configure(os.Getenv)

	// Initialize database
	dbStart := time.Now()
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	startup.LogDatabaseInit(time.Since(dbStart))

	// Imported files
	registry, err := resources.NewRegistry(config.UploadDir)
	if err != nil {
		startup.LogFatal("Failed to open upload directory: %v", err)
	}

	// Load the persisted catalog
	loadStart := time.Now()
	state := catalog.New(db, registry)
	if err := state.Load(ctx); err != nil {
		startup.LogFatal("Failed to load catalog: %v", err)
	}
	stats := state.GetStats()
	startup.LogCatalogLoaded(len(state.Items()), stats.UserItems, stats.Albums, len(state.Sources()), time.Since(loadStart))

	removed := registry.Sweep(state.HandleIDs())
	startup.LogResourceSweep(registry.Len(), removed)

	// AI gateway
	startup.LogInsightInit(config)
	gateway, err := insight.New(ctx, insight.Config{
		APIKey:     config.GeminiAPIKey,
		TextModel:  config.GeminiTextModel,
		ImageModel: config.GeminiImageModel,
		RPM:        config.GeminiRPM,
		Timeout:    config.GeminiTimeout,
	})
	if err != nil {
		startup.LogFatal("Failed to initialize AI gateway: %v", err)
	}

	tracker := tasks.NewTracker(ctx, 0)

	var sampler media.FrameSampler
	if config.FramesEnabled {
		sampler = media.NewFFmpegSampler()
	}

	h := handlers.New(handlers.Deps{
		State:    state,
		Session:  session.New(state, gateway, tracker),
		Importer: importer.New(state, registry, gateway, sampler, tracker),
		Prober:   sources.NewProber(state),
		Registry: registry,
		Gateway:  gateway,
		Store:    db,
		Pending:  tracker.Pending,
	}, config)

	// Metrics collector
	collector := metrics.NewCollector(state, db, collectorInterval)
	collector.Start()

	// Setup router
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           wrapHandler(router, config),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       0, // imports stream large bodies
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	svc := &services{
		srv:       srv,
		collector: collector,
		tracker:   tracker,
		gateway:   gateway,
		db:        db,
	}

	if config.MetricsEnabled {
		svc.metricsSrv = newMetricsServer(config.MetricsPort, h)
		go func() {
			if err := svc.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	done := make(chan struct{})
	go handleShutdown(svc, done)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	h.RegisterRoutes(r)
	return r
}

// wrapHandler applies the logging and compression middleware.
func wrapHandler(router http.Handler, config *startup.Config) http.Handler {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	return middleware.Compression(middleware.DefaultCompressionConfig())(loggedHandler)
}

func newMetricsServer(port string, h *handlers.Handlers) *http.Server {
	mr := http.NewServeMux()
	mr.Handle("/metrics", h.MetricsHandler())
	mr.HandleFunc("/health", h.LivenessCheck)

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
}

func handleShutdown(svc *services, done chan<- struct{}) {
	defer close(done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := svc.srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Stopping metrics collector")
	svc.collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Waiting for background tasks")
	if err := svc.tracker.WaitContext(ctx); err != nil {
		logging.Warn("Background tasks still running at shutdown: %d", svc.tracker.Pending())
	} else {
		startup.LogShutdownStepComplete("Background tasks finished")
	}

	if closer, ok := svc.gateway.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logging.Warn("AI gateway close error: %v", err)
		}
	}

	if svc.metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := svc.metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Closing database")
	if err := svc.db.Close(); err != nil {
		logging.Warn("Database close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Database closed")
	}

	startup.LogShutdownComplete()
	logging.Sync()
}
