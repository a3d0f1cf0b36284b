// Command cleaner splits the marketing-campaign archives in files/input into
// client.csv, campaign.csv and economics.csv under files/output.
//
// When DATABASE_URL is set the three tables are also loaded into PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/JonMunkholm/campaigns/internal/config"
	"github.com/JonMunkholm/campaigns/internal/core"
	"github.com/JonMunkholm/campaigns/internal/logging"
	"github.com/JonMunkholm/campaigns/internal/store"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx := logging.WithRunID(context.Background(), uuid.NewString())
	logger := logging.FromContext(ctx)
	logger.Debug("configuration loaded", "config", cfg.String())

	result, err := core.NewBuilder(core.DefaultInputDir, core.DefaultOutputDir).Run(ctx)
	if err != nil {
		logger.Error("campaign cleaning failed", "code", core.MapError(err).Code, "error", err)
		os.Exit(1)
	}

	if !cfg.Database.Enabled() {
		return
	}

	if err := publish(ctx, cfg.Database, result.Dataset); err != nil {
		logger.Error("database load failed", "code", core.MapError(err).Code, "error", err)
		os.Exit(1)
	}
}

func publish(ctx context.Context, cfg config.DatabaseConfig, ds *core.Dataset) error {
	sink, err := store.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	res, err := sink.Publish(ctx, ds)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info("tables loaded into database",
		"client", res.Rows[core.ClientTable.Key],
		"campaign", res.Rows[core.CampaignTable.Key],
		"economics", res.Rows[core.EconomicsTable.Key],
		"duration", res.Duration,
	)
	return nil
}
