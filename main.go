package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"media-catalog/internal/catalog"
	"media-catalog/internal/handlers"
	"media-catalog/internal/ingest"
	"media-catalog/internal/logging"
	"media-catalog/internal/memory"
	"media-catalog/internal/metrics"
	"media-catalog/internal/middleware"
	"media-catalog/internal/render"
	"media-catalog/internal/retry"
	"media-catalog/internal/similar"
	"media-catalog/internal/startup"
	"media-catalog/internal/store"
)

func main() {
	startTime := time.Now()

	// Size the Go heap from the container limit before anything
	// allocates
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Register metric series and wire retry instrumentation
	metrics.InitializeMetrics()
	retry.SetObserver(metrics.NewRetryObserver())

	// Initialize libvips for photo decoding; the renderer falls back
	// to pure-Go decoding when unavailable
	if config.VipsEnabled {
		if err := render.InitVips(); err != nil {
			logging.Warn("libvips unavailable, using fallback decoder: %v", err)
		} else {
			defer render.ShutdownVips()
		}
	}

	// Initialize store
	storeStart := time.Now()
	st, err := store.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize store: %v", err)
	}
	defer st.Close()
	startup.LogStoreInit(time.Since(storeStart))

	// Renderer needs a writable thumbnail cache
	var renderer *render.Renderer
	var hasher catalog.Hasher
	if config.ThumbnailsEnabled {
		renderer, err = render.New(config.ThumbnailDir, config.HashFlavor)
		if err != nil {
			startup.LogFatal("Failed to initialize renderer: %v", err)
		}
		hasher = renderer
	} else {
		logging.Warn("Thumbnail cache unavailable, filter edits will not rehash")
	}

	cat := catalog.New(st, hasher)
	index := similar.New(st, config.HashFlavor, config.SimilarMinOverlap, config.SimilarMaxDistance)

	// Memory backpressure for hash workers
	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()
	defer monitor.Stop()

	// Initialize ingester and start the background scan loop
	startup.LogIngestInit(config.ScanInterval)
	ingester := ingest.New(st, config.MediaDir, config.ScanInterval, config.HashFlavor)
	ingester.SetMonitor(monitor)
	ingester.Start(context.Background())
	startup.LogIngestStarted()

	// Initialize handlers and router
	h := handlers.New(cat, index, renderer, ingester, config)
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	startup.LogHTTPRoutes(router)

	// Apply middleware: metrics innermost so it sees the matched
	// route template, then logging, then compression
	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}
	handler = middleware.Logger(middleware.DefaultLoggingConfig())(handler)
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	// Metrics are served on their own port so they stay off the
	// application surface
	if config.MetricsEnabled {
		go func() {
			metricsMux := http.NewServeMux()
			metricsMux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(":"+config.MetricsPort, metricsMux); err != nil {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, ingester)

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

func handleShutdown(srv *http.Server, ingester *ingest.Ingester) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ingester.Stop()
	startup.LogShutdownStepComplete("Ingester stopped")

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
