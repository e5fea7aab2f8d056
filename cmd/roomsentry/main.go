package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HerbHall/roomsentry/internal/alert"
	"github.com/HerbHall/roomsentry/internal/config"
	"github.com/HerbHall/roomsentry/internal/directory"
	"github.com/HerbHall/roomsentry/internal/event"
	"github.com/HerbHall/roomsentry/internal/ingest"
	"github.com/HerbHall/roomsentry/internal/notify"
	"github.com/HerbHall/roomsentry/internal/rooms"
	"github.com/HerbHall/roomsentry/internal/server"
	"github.com/HerbHall/roomsentry/internal/store"
	"github.com/HerbHall/roomsentry/internal/version"
	"github.com/HerbHall/roomsentry/internal/ws"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration (before logger, so log level/format can be configured).
	viperCfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger from configuration.
	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("RoomSentry server starting", zap.String("version", version.Short()))

	if f := viperCfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	// Open database
	dbPath := viperCfg.GetString("database.path")
	if dbPath == "" {
		dbPath = "roomsentry.db"
	}
	db, err := store.New(dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.CheckVersion(ctx, version.Version); err != nil {
		logger.Fatal("database version check failed", zap.Error(err))
	}
	if err := db.Migrate(ctx, "alert", alert.Migrations()); err != nil {
		logger.Fatal("failed to run alert migrations", zap.Error(err))
	}

	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", dbPath),
	)

	// Create shared services
	bus := event.NewBus(logger.Named("event"))
	logger.Info("event bus created", zap.String("component", "event"))

	// Threshold configuration is load-bearing; a misconfigured band set
	// must stop the process rather than silently misclassify.
	thresholds, err := alert.ThresholdsFromConfig(viperCfg)
	if err != nil {
		logger.Fatal("invalid threshold configuration", zap.Error(err))
	}
	classifier := alert.NewClassifier(thresholds)

	alertStore := alert.NewStore(
		db.DB(),
		bus,
		viperCfg.GetDuration("alerts.dedup_window"),
		viperCfg.GetDuration("alerts.lookup_timeout"),
		logger.Named("alert"),
	)
	logger.Info("alert store initialized", zap.String("component", "alert"))

	roomRegistry := rooms.FromConfig(viperCfg)
	pipeline := ingest.New(alertStore, roomRegistry, classifier, logger.Named("ingest"))
	logger.Info("ingest pipeline initialized", zap.String("component", "ingest"))

	userDirectory := directory.FromConfig(viperCfg)
	alertHandler := alert.NewHandler(alertStore, userDirectory, logger.Named("alert"))
	ingestHandler := ingest.NewHandler(pipeline, logger.Named("ingest"))

	// WebSocket handler for real-time alert updates
	wsHandler := ws.NewHandler(bus, logger.Named("ws"))
	logger.Info("websocket handler initialized", zap.String("component", "ws"))

	// Notification dispatcher
	dispatcher, err := notify.FromConfig(viperCfg, logger.Named("notify"))
	if err != nil {
		logger.Fatal("failed to configure notifications", zap.Error(err))
	}
	dispatcher.Register(bus)
	logger.Info("notification dispatcher initialized", zap.String("component", "notify"))

	// Create and start HTTP server
	addr := viperCfg.GetString("server.host") + ":" + viperCfg.GetString("server.port")
	if addr == ":" {
		addr = "0.0.0.0:8080"
	}
	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		return db.DB().PingContext(ctx)
	})
	srv := server.New(addr, logger.Named("server"), readyCheck,
		alertHandler, ingestHandler, wsHandler,
	)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("RoomSentry server ready", zap.String("addr", addr))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("RoomSentry server stopped")
}
