package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vintervake/kodekalender/kalender"
	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/engine"
	"github.com/vintervake/kodekalender/kalender/logger"
	"github.com/vintervake/kodekalender/kalender/server"
	"github.com/vintervake/kodekalender/kalender/services"
	"github.com/vintervake/kodekalender/kalender/store"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler()))

	slog.Info("Starting Kodekalender server",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	memoryOnly := flag.Bool("memory", false, "run without a database, sessions live in memory")
	flag.Parse()

	cfg, err := kalender.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	catalog, err := content.NewCatalog()
	if err != nil {
		// A catalog error is a content-authoring bug; nothing can run.
		slog.Error("Content catalog rejected", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Content catalog loaded",
		slog.Int("quests", len(catalog.Quests)),
		slog.Int("badges", len(catalog.Badges)),
		slog.Int("symbols", len(catalog.Symbols)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var db *store.DB
	if !*memoryOnly {
		dbStartTime := time.Now()
		db, err = store.New(ctx, store.DBConfig{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Database,
			PoolSize: cfg.DB.PoolSize,
		})
		if err != nil {
			slog.Error("Database connection failed",
				slog.String("error", err.Error()),
				slog.Duration("attempted_for", time.Since(dbStartTime)))
			os.Exit(-1)
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			slog.Error("Failed to initialize database schema", slog.Any("error", err))
			os.Exit(-1)
		}
		slog.Info("Database connected successfully",
			slog.String("database", cfg.DB.Database),
			slog.Duration("took", time.Since(dbStartTime)))
	} else {
		slog.Info("Running in memory-only mode, progress is not persisted")
	}

	var snapshots *services.SnapshotService
	if cfg.Spaces.Bucket != "" {
		snapshots, err = services.NewSnapshotService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.Root,
		)
		if err != nil {
			slog.Error("Failed to initialize snapshot storage", slog.Any("error", err))
			os.Exit(-1)
		}
	}

	hub := server.NewHub()
	registry := server.NewSessionRegistry(catalog, db, engine.Options{FixedDay: cfg.Server.StartDay}, hub)
	search := services.NewArchiveSearchService(catalog)

	mux := http.NewServeMux()
	server.NewHandler(registry, search, snapshots, hub).Register(mux)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.RequestLogger(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run()
		return nil
	})
	g.Go(func() error {
		slog.Info("HTTP server listening", slog.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP shutdown failed", slog.Any("error", err))
		}
		if err := registry.Close(shutdownCtx); err != nil {
			slog.Error("Session shutdown failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Shutdown complete")
}
