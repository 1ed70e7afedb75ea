package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SaraLat04/Assistant-Juridique/config"
	"github.com/SaraLat04/Assistant-Juridique/handlers"
	"github.com/SaraLat04/Assistant-Juridique/repositories"
	"github.com/SaraLat04/Assistant-Juridique/repositories/postgres"
	"github.com/SaraLat04/Assistant-Juridique/services/chat"
	"github.com/SaraLat04/Assistant-Juridique/services/generation"
	"github.com/SaraLat04/Assistant-Juridique/services/retrieval"
	"github.com/SaraLat04/Assistant-Juridique/vectorstore"
	"github.com/SaraLat04/Assistant-Juridique/vectorstore/chroma"
)

// Dependencies holds all application dependencies. This is the central wiring
// point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Domain
	Store         vectorstore.Store
	Conversations repositories.ConversationRepository
	Cascade       *generation.Cascade
	ChatService   *chat.ChatService

	// HTTP
	ChatHandler         *handlers.ChatHandler
	ConversationHandler *handlers.ConversationHandler
	HealthHandler       *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := deps.initVectorStore(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}

	deps.initGeneration(cfg)
	deps.initServices(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase opens the conversation store and ensures its schema exists.
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	d.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Conversations = postgres.NewConversationRepository(db, d.Logger)

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))
	return nil
}

// initVectorStore connects to Chroma and resolves the legal-text collection.
func (d *Dependencies) initVectorStore(ctx context.Context, cfg *config.Config) error {
	store, err := chroma.NewClient(ctx, cfg.Retrieval.ChromaURL, cfg.Retrieval.Collection, d.Logger)
	if err != nil {
		return err
	}
	d.Store = store

	d.Logger.Info("vector store connected",
		zap.String("url", cfg.Retrieval.ChromaURL),
		zap.String("collection", cfg.Retrieval.Collection))
	return nil
}

// initGeneration builds the backend cascade in priority order. Unconfigured
// backends stay in the chain; the cascade skips them at request time.
func (d *Dependencies) initGeneration(cfg *config.Config) {
	backends := []generation.Backend{
		generation.NewOpenAIBackend(cfg.Backends.OpenAI),
		generation.NewGroqBackend(cfg.Backends.Groq),
		generation.NewHuggingFaceBackend(cfg.Backends.HuggingFace),
		generation.NewOllamaBackend(cfg.Backends.Ollama),
	}

	configured := 0
	for _, b := range backends {
		if b.Configured() {
			configured++
			d.Logger.Info("generation backend configured", zap.String("backend", b.Name()))
		}
	}
	if configured == 0 {
		d.Logger.Warn("no generation backends configured, grounded answers will be extractive")
	}

	d.Cascade = generation.NewCascade(d.Logger, backends...)
}

// initServices wires the orchestrator and the HTTP handlers.
func (d *Dependencies) initServices(cfg *config.Config) {
	policy := retrieval.PolicyFromConfig(cfg.Retrieval)
	d.Logger.Info("relevance gate configured", zap.String("policy", policy.String()))

	d.ChatService = chat.NewChatService(
		d.Store,
		d.Conversations,
		policy,
		cfg.Retrieval.TopK,
		d.Cascade,
		d.Logger,
	)

	d.ChatHandler = handlers.NewChatHandler(d.ChatService, d.Logger)
	d.ConversationHandler = handlers.NewConversationHandler(d.Conversations, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.Store, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
