package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vintervake/kodekalender/kalender"
	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/migration"
	"github.com/vintervake/kodekalender/kalender/store"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	collection := flag.String("collection", "", "override legacy collection name")
	flag.Parse()

	ctx := context.Background()

	cfg, err := kalender.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	catalog, err := content.NewCatalog()
	if err != nil {
		slog.Error("Failed to load content catalog", "error", err)
		os.Exit(1)
	}

	db, err := store.New(ctx, store.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", "error", err)
		os.Exit(1)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	migrator := migration.NewMigrator(db, catalog)
	migrator.UseMongo(client, cfg.Mongo.Database)
	if *collection != "" {
		migrator.SetCollectionName(*collection)
	}

	if err := migrator.MigrateAll(ctx); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Migration completed successfully!")
}
