package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gen-studio/internal/artifacts"
	"gen-studio/internal/engine"
	"gen-studio/internal/handlers"
	"gen-studio/internal/journal"
	"gen-studio/internal/logging"
	"gen-studio/internal/memory"
	"gen-studio/internal/metrics"
	"gen-studio/internal/middleware"
	"gen-studio/internal/poller"
	"gen-studio/internal/runtime"
	"gen-studio/internal/startup"
	"gen-studio/internal/store"
	"gen-studio/internal/tts"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// journalRetention bounds how long job events are kept.
const journalRetention = 30 * 24 * time.Hour

func main() {
	startTime := time.Now()

	// Configure GOMEMLIMIT before anything allocates in earnest
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize job journal
	journalStart := time.Now()
	jrnl, err := journal.New(context.Background(), config.JournalPath)
	if err != nil {
		startup.LogFatal("Failed to initialize job journal: %v", err)
	}
	defer jrnl.Close()
	startup.LogJournalInit(time.Since(journalStart))

	// Prune old journal events periodically
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			if _, err := jrnl.Prune(context.Background(), journalRetention); err != nil {
				logging.Warn("journal prune failed: %v", err)
			}
		}
	}()

	// Metadata stores and media library
	imageStore := store.NewMediaStore("images", config.ImageDataPath)
	videoStore := store.NewMediaStore("videos", config.VideoDataPath)
	voices := store.NewVoiceRegistry(config.VoicesDir, config.MediaDir)
	library := artifacts.NewLibrary(config.ImagesDir, config.VideosDir)

	// Engine and runtime clients
	eng := engine.New(config.EngineURL, config.EngineTimeout)
	rt := runtime.New(config.RuntimeURL)
	startup.LogEngineCheck(config.EngineURL, eng.Ping(context.Background()))

	// Workflow templates; generation stays disabled for a kind whose
	// template is missing
	imageTemplate, err := engine.LoadTemplate(config.WorkflowDir, engine.ImageTemplateFile)
	if err != nil {
		logging.Warn("image workflow template unavailable: %v", err)
	}
	videoTemplate, err := engine.LoadTemplate(config.WorkflowDir, engine.VideoTemplateFile)
	if err != nil {
		logging.Warn("video workflow template unavailable: %v", err)
	}

	// Job poller
	startup.LogPollerInit(config.PollInterval, config.MaxPollAttempts)
	mgr := poller.NewManager(poller.Config{
		Engine:      eng,
		Library:     library,
		ImageStore:  imageStore,
		VideoStore:  videoStore,
		Journal:     jrnl,
		Interval:    config.PollInterval,
		MaxAttempts: config.MaxPollAttempts,
	})

	// Speech synthesis
	synth := tts.NewRunner(config.TTSScript, config.PythonBin, voices)

	startup.LogThumbnailInit(config.ThumbnailsEnabled)

	// Initialize handlers
	h := handlers.New(handlers.Deps{
		Engine:        eng,
		Runtime:       rt,
		Poller:        mgr,
		Journal:       jrnl,
		Library:       library,
		ImageStore:    imageStore,
		VideoStore:    videoStore,
		Voices:        voices,
		Synth:         synth,
		Config:        config,
		ImageTemplate: imageTemplate,
		VideoTemplate: videoTemplate,
	})

	// Setup router
	router := h.Router()

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply metrics middleware
	meteredHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(router)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(meteredHandler)

	// Apply compression middleware
	compressionConfig := middleware.DefaultCompressionConfig()
	handler := middleware.Compression(compressionConfig)(loggedHandler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics server on its own port
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, mgr, jrnl)

	// Start server
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

func handleShutdown(srv, metricsSrv *http.Server, mgr *poller.Manager, jrnl *journal.Journal) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Stopping job poller")
	mgr.Stop()
	startup.LogShutdownStepComplete("Job poller stopped")

	startup.LogShutdownStep("Closing job journal")
	if err := jrnl.Close(); err != nil {
		logging.Warn("Journal close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Job journal closed")
	}

	startup.LogShutdownComplete()
}
