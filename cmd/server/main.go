// Package main runs the estate API server: the HTTP API, the background
// content generation workers and, with -migrate, database migrations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phrazzld/estate-api/internal/config"
	"github.com/phrazzld/estate-api/internal/platform/logger"
	"github.com/phrazzld/estate-api/internal/platform/postgres"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to a YAML config file (default ./config.yaml if present)")
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading configuration")
	migrateCmd := flags.String("migrate", "", "run a migration command (up, down, status, version, reset) and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := loadEnvFile(*envFile); err != nil {
		return err
	}

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_provider", cfg.LLM.Provider,
		"llm_model", cfg.LLM.ModelName,
		"llm_api_key_present", cfg.LLM.APIKey != "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if *migrateCmd != "" {
		defer db.Close()
		log.Info("running migrations", "command", *migrateCmd)
		return postgres.Migrate(ctx, db, *migrateCmd)
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// loadEnvFile loads path into the process environment. A missing file is
// not an error; variables already set are not overridden.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
