package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"cost-estimator/internal/estimates"
	"cost-estimator/internal/llm"
	anthropicllm "cost-estimator/internal/llm/anthropic"
	openaillm "cost-estimator/internal/llm/openai"
	"cost-estimator/internal/projects"
	"cost-estimator/internal/services/health"
	"cost-estimator/internal/shared/config"
	"cost-estimator/internal/shared/server"
	"cost-estimator/internal/shared/storage/db"
	"cost-estimator/internal/shared/storage/object"
	localstore "cost-estimator/internal/shared/storage/object/local"
	s3store "cost-estimator/internal/shared/storage/object/s3"
	"cost-estimator/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	LLM              llm.Client
	Catalog          *estimates.Catalog
	ProjectsRepo     projects.Repo
	EstimatesRepo    estimates.Repo
	EstimatesService *estimates.Service
	ProjectsService  *projects.Service
	ProjectsHandler  *projects.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	catalog, err := buildCatalog(cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		LLM:     llmClient,
		Catalog: catalog,
	}

	if err := buildServices(app); err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		ProjectsHandler: app.ProjectsHandler,
		Health:          health.NewService(app.DB),
	})

	return app, nil
}

// Close releases the database pool if one was opened.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	if db.IsLambdaRuntime() {
		opts = db.OptionsFromEnv(db.DefaultLambdaOptions())
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "migrations failed", "error": err.Error()})
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	opts := llm.Options{
		APIKey:    cfg.LLMAPIKey,
		Model:     cfg.LLMModel,
		BaseURL:   cfg.LLMBaseURL,
		MaxTokens: cfg.LLMMaxTokens,
		Timeout:   cfg.LLMTimeout,
	}
	if cfg.LLMProvider != "none" && strings.TrimSpace(opts.APIKey) == "" && cfg.IsDevLike() {
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"provider": cfg.LLMProvider, "reason": "api key empty"})
		return llm.PlaceholderClient{}, nil
	}
	switch cfg.LLMProvider {
	case "openai":
		client, err := openaillm.NewClient(opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "anthropic":
		client, err := anthropicllm.NewClient(opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"provider": cfg.LLMProvider})
		return llm.PlaceholderClient{}, nil
	}
}

func buildCatalog(cfg config.Config) (*estimates.Catalog, error) {
	path := strings.TrimSpace(cfg.CatalogFile)
	if path == "" {
		return estimates.DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return estimates.ParseCatalog(data)
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.ProjectsRepo = &projects.PGRepo{DB: app.DB}
		app.EstimatesRepo = &estimates.PGRepo{DB: app.DB}
	} else {
		app.ProjectsRepo = projects.NewMemoryRepo()
		app.EstimatesRepo = estimates.NewMemoryRepo()
	}

	app.EstimatesService = &estimates.Service{
		LLM:     app.LLM,
		Repo:    app.EstimatesRepo,
		Catalog: app.Catalog,
	}
	app.ProjectsService = &projects.Service{
		Repo:              app.ProjectsRepo,
		Store:             app.Store,
		Estimator:         app.EstimatesService,
		AllowedExtensions: app.Config.AllowedExtensions,
	}
	app.ProjectsHandler = projects.NewHandler(app.ProjectsService, app.Config.MaxUploadBytes)

	if app.ProjectsHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

func closeDB(sqlDB *sql.DB) {
	if sqlDB != nil {
		_ = sqlDB.Close()
	}
}
