package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"coursetracker/internal/config"
	"coursetracker/internal/database"
	"coursetracker/internal/logger"
	"coursetracker/internal/repository/sqlstore"
	"coursetracker/internal/security"
	"coursetracker/internal/service"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// every command except migrate expects an up-to-date schema
	if len(os.Args) > 1 && os.Args[1] != "migrate" {
		if err := db.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	cli := newCommandLine(db, service.Deps{
		Store:  sqlstore.New(db),
		Logger: logger.WithComponent(log, "admin"),
	}, security.NewHasher(cfg.PasswordIterations), cfg.SessionTTL, os.Stdout)
	log.Debug("running admin command", zap.Strings("args", os.Args[1:]))
	return cli.run(os.Args)
}
