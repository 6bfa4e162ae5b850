package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/epicdreams/storefront-backend/internal/seed"
	"github.com/epicdreams/storefront-backend/pkg/config"
	"github.com/epicdreams/storefront-backend/pkg/db"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/migrate"
)

const taskSpotifyEmbed = "spotify-embed"

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	reset := flag.Bool("reset", true, "delete every table before seeding")
	task := flag.String("task", "", "run a single task instead of the full seed: spotify-embed")
	embedURL := flag.String("url", seed.LloydSpotifyEmbed, "embed URL for -task=spotify-embed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "resource not working: config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":   cfg.App.Env,
		"reset": *reset,
		"task":  *task,
	})

	if err := run(ctx, cfg, logg, *reset, *task, *embedURL); err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, reset bool, task, embedURL string) (err error) {
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		err = multierr.Append(err, client.Close())
	}()

	if client.Driver() == config.DriverSQLite {
		if err := migrate.AutoMigrate(ctx, client); err != nil {
			return err
		}
	}

	seeder, err := seed.NewSeeder(seed.Params{
		DB:       client.DB(),
		Tx:       client,
		Admin:    cfg.Admin,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	switch task {
	case "":
		report, err := seeder.Run(ctx, seed.Options{Reset: reset})
		if err != nil {
			return err
		}
		fmt.Println("seed complete:", report.String())
		return nil
	case taskSpotifyEmbed:
		if err := seeder.SpotifyEmbed(ctx, embedURL); err != nil {
			return err
		}
		fmt.Println("spotify embed updated")
		return nil
	default:
		return fmt.Errorf("unknown -task value %q", task)
	}
}
