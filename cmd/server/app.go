package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/estate-api/internal/config"
	"github.com/phrazzld/estate-api/internal/generation"
	"github.com/phrazzld/estate-api/internal/platform/gemini"
	"github.com/phrazzld/estate-api/internal/platform/openai"
	"github.com/phrazzld/estate-api/internal/platform/postgres"
	"github.com/phrazzld/estate-api/internal/service"
	"github.com/phrazzld/estate-api/internal/service/auth"
	"github.com/phrazzld/estate-api/internal/store"
	"github.com/phrazzld/estate-api/internal/task"
)

// shutdownTimeout bounds HTTP drain and worker drain separately.
const shutdownTimeout = 15 * time.Second

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	propertyStore store.PropertyStore
	categoryStore store.CategoryStore

	jwtService    auth.JWTService
	authenticator *auth.OperatorAuthenticator

	propertyService *service.PropertyService
	contentService  *service.ContentService

	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool
	backfiller *task.Backfiller
}

// newApplication wires stores, the completion client, services and the
// background pipeline. Nothing is started until Run.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	return buildApplication(cfg, logger, db,
		postgres.NewPostgresPropertyStore(db, logger),
		postgres.NewPostgresCategoryStore(db, logger))
}

func buildApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	properties store.PropertyStore,
	categories store.CategoryStore,
) (*application, error) {
	app := &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		propertyStore: properties,
		categoryStore: categories,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.authenticator, err = auth.NewOperatorAuthenticator(cfg.Auth, auth.NewBcryptVerifier())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize operator authentication: %w", err)
	}

	client, err := newCompletionClient(cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	generator, err := generation.NewContentGenerator(client, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize content generator: %w", err)
	}
	logger.Info("content generator initialized",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.ModelName)

	app.taskQueue = task.NewTaskQueue(cfg.Task.QueueSize, logger)

	app.contentService, err = service.NewContentService(
		properties,
		generator,
		app.taskQueue,
		contentServiceConfig(cfg),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create content service: %w", err)
	}

	app.propertyService, err = service.NewPropertyService(db, properties, categories, app.contentService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create property service: %w", err)
	}

	poolConfig := task.DefaultWorkerPoolConfig()
	poolConfig.WorkerCount = cfg.Task.WorkerCount
	app.workerPool = task.NewWorkerPool(app.taskQueue, poolConfig, logger)
	app.workerPool.SetErrorHandler(func(t task.Task, err error) {
		logger.Warn("background task failed", "task_id", t.ID(), "task_type", t.Type())
	})

	app.backfiller, err = task.NewBackfiller(properties, app.contentService, task.BackfillConfig{
		Interval:  time.Duration(cfg.Task.BackfillIntervalMinutes) * time.Minute,
		BatchSize: cfg.Task.BackfillBatchSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create backfiller: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

func contentServiceConfig(cfg *config.Config) service.ContentServiceConfig {
	return service.ContentServiceConfig{
		Generation: generation.GenerationConfig{
			APIKey:          cfg.LLM.APIKey,
			Model:           cfg.LLM.ModelName,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
			Temperature:     cfg.LLM.Temperature,
			Timeout:         time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		},
		MaxRetries:      cfg.LLM.MaxRetries,
		RetryDelay:      time.Duration(cfg.LLM.RetryDelaySeconds) * time.Second,
		FailureCooldown: time.Duration(cfg.Task.FailureCooldownMinutes) * time.Minute,
	}
}

// newCompletionClient selects the provider adapter named in the config.
func newCompletionClient(cfg config.LLMConfig, logger *slog.Logger) (generation.CompletionClient, error) {
	httpClient := &http.Client{}
	switch cfg.Provider {
	case "openai":
		c, err := openai.NewClient(cfg.BaseURL, httpClient, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return c, nil
	case "gemini":
		c, err := gemini.NewClient(cfg.BaseURL, httpClient, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// Run starts the workers, the backfiller and the HTTP server, and blocks
// until ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	app.workerPool.Start()
	app.backfiller.Start()

	err := app.startHTTPServer(ctx, app.setupRouter())
	app.cleanup()
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops intake before draining: backfiller, queue, workers, then DB.
func (app *application) cleanup() {
	app.backfiller.Stop()
	app.taskQueue.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.workerPool.Shutdown(ctx); err != nil {
		app.logger.Warn("worker pool did not drain in time", "error", err)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
