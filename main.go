package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/milltech/erpchat/pkg/catalog"
	"github.com/milltech/erpchat/pkg/config"
	"github.com/milltech/erpchat/pkg/database"
	"github.com/milltech/erpchat/pkg/handlers"
	"github.com/milltech/erpchat/pkg/llm"
	"github.com/milltech/erpchat/pkg/logging"
	"github.com/milltech/erpchat/pkg/repositories"
	"github.com/milltech/erpchat/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))

	ctx := context.Background()

	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Migrations run through the pgx stdlib adapter over the same pool.
	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	llmClient, err := llm.NewClient(cfg.LLM.Provider, &llm.Config{
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	executor := services.NewExecutor(db, logger)
	resolver := services.NewResolver(executor, logger)
	schemaCatalog := catalog.New(db, logger)
	synthesizer := services.NewSynthesizer(schemaCatalog, resolver, llmClient, executor, cfg.LLM.Temperature, logger)
	classifier := services.NewClassifier(executor, resolver, logger)
	formatter := services.NewFormatter()

	historyRepo := repositories.NewQueryHistoryRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderStatus := services.NewOrderStatusService(orderRepo, logger)

	engine := services.NewEngine(classifier, synthesizer, formatter, historyRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(engine, historyRepo, logger).RegisterRoutes(mux)
	handlers.NewOrdersHandler(orderStatus, logger).RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting erpchat", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
