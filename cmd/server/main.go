package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-arcade/internal/app"
	"github.com/vancomm/minesweeper-arcade/internal/config"
	"github.com/vancomm/minesweeper-arcade/internal/database"
	"github.com/vancomm/minesweeper-arcade/internal/logging"
	"github.com/vancomm/minesweeper-arcade/internal/repository"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "/run/config.json", "path to the config file")
	flag.StringVar(&configPath, "c", "/run/config.json", "path to the config file (shorthand)")
	flag.Parse()

	cfg, err := config.LoadWithDotEnv(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to set up logging: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(cfg.Fields()).Info("starting minesweeper arcade")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, log, cfg); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}

func run(ctx context.Context, log *logrus.Logger, cfg *config.Config) error {
	store, closeStore, err := openStore(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	a, err := app.New(log, cfg, store)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func openStore(
	ctx context.Context, log *logrus.Logger, cfg *config.Config,
) (repository.Store, func(), error) {
	if cfg.Store == "memory" {
		log.Warn("using in-memory store, nothing survives a restart")
		return repository.NewMemory(), func() {}, nil
	}

	pool, migrator, err := database.ConnectAndMigrate(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to db: %w", err)
	}
	version, dirty, err := migrator.Version()
	migrator.Close()
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("unable to check migration version: %w", err)
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("database migrated")

	return repository.New(pool), pool.Close, nil
}
