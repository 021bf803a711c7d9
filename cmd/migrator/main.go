// Сервис для запуска миграций базы данных Zen Zone.
package main

import (
	"log/slog"
	"os"

	"github.com/magabrotheeeer/zen-zone/internal/config"
	"github.com/magabrotheeeer/zen-zone/internal/migrations"
	"github.com/magabrotheeeer/zen-zone/internal/storage/repository"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting migrator", slog.String("env", cfg.Env))

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.DB.Close()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", slog.Any("err", err))
		os.Exit(1)
	}

	if err := repository.CheckDatabaseReady(db); err != nil {
		logger.Error("database is not ready after migrations", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("migrations applied")
}
