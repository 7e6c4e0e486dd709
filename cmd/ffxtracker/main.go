package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/ffxlogic/internal/config"
	"github.com/lawnchairsociety/ffxlogic/internal/gamedata"
	"github.com/lawnchairsociety/ffxlogic/internal/logger"
	"github.com/lawnchairsociety/ffxlogic/internal/options"
	"github.com/lawnchairsociety/ffxlogic/internal/tracker"
	"github.com/lawnchairsociety/ffxlogic/internal/world"
)

func main() {
	playersPath := flag.String("players", "players", "Path to a player YAML file or a directory of them")
	dataDir := flag.String("data-dir", "", "Directory of game tables overriding the embedded ones")
	configFile := flag.String("config", "data/ffxlogic.yaml", "Path to generator config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	listen := flag.String("listen", "", "Tracker listen address (default: from config)")
	flag.Parse()

	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		log.Fatalf("Failed to load logging config: %v", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", err)
		cfg = config.DefaultConfig()
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *listen != "" {
		cfg.Tracker.Listen = *listen
	}

	data, err := gamedata.Source{Dir: cfg.Data.Dir}.Load()
	if err != nil {
		log.Fatalf("Failed to load game data: %v", err)
	}
	players, err := options.Load(*playersPath)
	if err != nil {
		log.Fatalf("Failed to load players: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := world.GenerateAll(ctx, players, data, cfg.Generation.Workers, logger.Logger())
	if err != nil {
		var cerr *options.ConfigError
		if errors.As(err, &cerr) {
			fmt.Fprintln(os.Stderr, cerr.Error())
			os.Exit(2)
		}
		log.Fatalf("Generation failed: %v", err)
	}
	if len(run.Worlds) == 0 {
		log.Fatalf("No Final Fantasy X players in %s", *playersPath)
	}

	t := tracker.New(run.Worlds, cfg.Tracker)
	defer t.Close()

	if len(cfg.Tracker.WebSocket.AllowedOrigins) == 0 {
		logger.Info("Tracker CORS policy", "mode", "same-origin")
	} else if len(cfg.Tracker.WebSocket.AllowedOrigins) == 1 && cfg.Tracker.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("Tracker CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("Tracker CORS policy", "allowed_origins", cfg.Tracker.WebSocket.AllowedOrigins)
	}
	if cfg.Tracker.PasswordHash == "" {
		logger.Warning("Tracker password disabled")
	}

	mux := http.NewServeMux()
	mux.Handle("/tracker", t)
	srv := &http.Server{
		Addr:              cfg.Tracker.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Tracker listening", "address", cfg.Tracker.Listen, "slots", t.Slots())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Tracker server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down tracker")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warning("Tracker shutdown incomplete", "error", err)
	}
	logger.Info("Tracker stopped")
}
