package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"homecast/api"
	"homecast/config"
	"homecast/handlers"
	"homecast/services/catalog"
	"homecast/services/indexer"
	"homecast/services/metadata"
	"homecast/services/playback"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	generateOnStart := flag.Bool("generate", false, "start a catalog generation run after the initial scan")
	flag.Parse()

	fmt.Println("🎬 homecast starting...")

	configPath := os.Getenv("HOMECAST_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation.
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	indexerService, err := indexer.NewService(
		settings.Library.MoviesPath,
		settings.Library.TVPath,
		settings.Library.MusicPath,
	)
	if err != nil {
		log.Fatalf("failed to initialise indexer: %v", err)
	}
	if err := indexerService.Scan(); err != nil {
		log.Fatalf("initial library scan failed: %v", err)
	}
	if err := indexerService.Watch(); err != nil {
		log.Printf("warning: library watching disabled: %v", err)
	}
	defer indexerService.Close()

	metadataService := metadata.NewService(settings.Metadata)
	store := catalog.NewStore(afero.NewOsFs(), settings.Data.Directory)
	catalogService := catalog.NewService(indexerService, metadataService, store, settings.Library)
	if err := catalogService.LoadFromStore(); err != nil {
		log.Printf("warning: could not load catalog snapshots: %v", err)
	}

	playbackService := playback.NewService(afero.NewOsFs())

	environment := os.Getenv("HOMECAST_ENV")
	if environment == "" {
		environment = "dev"
	}

	catalogHandler := handlers.NewCatalogHandler(catalogService, environment)
	streamHandler := handlers.NewStreamHandler(catalogService, playbackService)

	r := api.NewRouter()
	api.Register(r, catalogHandler, streamHandler)

	if *generateOnStart {
		runID := catalogService.GenerateAsync()
		fmt.Printf("📚 catalog generation started (run %s)\n", runID)
	}

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for streaming
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
