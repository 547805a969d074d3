package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-arcade/internal/config"
	"github.com/vancomm/minesweeper-arcade/internal/database"
	"github.com/vancomm/minesweeper-arcade/internal/logging"
)

func main() {
	configPath := flag.String("config", "/run/config.json", "path to the config file")
	flag.Parse()

	cfg, err := config.LoadWithDotEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to set up logging: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, migrator, err := database.ConnectAndMigrate(ctx, cfg.Postgres)
	if err != nil {
		log.WithError(err).Fatal("failed to connect and migrate db")
	}
	defer pool.Close()
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		return
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
