package di

import (
	"context"

	"go.uber.org/zap"

	"glossary-backend/application/ports"
	"glossary-backend/infrastructure/config"
	"glossary-backend/infrastructure/openai"
	"glossary-backend/infrastructure/persistence"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Store  ports.TermStore
	Mode   persistence.Mode
	AI     openai.Client
}

// ProvideLogger creates a new logger instance.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideStoreSelection picks the storage backend once for the process
// lifetime.
func ProvideStoreSelection(ctx context.Context, cfg *config.Config, logger *zap.Logger) persistence.Selection {
	return persistence.New(ctx, cfg, logger)
}

// ProvideTermStore exposes the selected store.
func ProvideTermStore(sel persistence.Selection) ports.TermStore {
	return sel.Store
}

// ProvideStoreMode exposes the selected backend mode for the health
// endpoint.
func ProvideStoreMode(sel persistence.Selection) persistence.Mode {
	return sel.Mode
}

// ProvideCompletionClient builds the Azure OpenAI client, or nil when no
// completion backend is configured; the AI handlers then fail fast.
func ProvideCompletionClient(cfg *config.Config, logger *zap.Logger) (openai.Client, error) {
	if cfg.OpenAIEndpoint == "" || cfg.OpenAIDeployment == "" {
		logger.Warn("OpenAI endpoint not configured, AI explanation disabled")
		return nil, nil
	}
	return openai.NewClient(openai.Config{
		Endpoint:       cfg.OpenAIEndpoint,
		Deployment:     cfg.OpenAIDeployment,
		APIKey:         cfg.OpenAIAPIKey,
		APIVersion:     cfg.OpenAIAPIVersion,
		MaxRetries:     cfg.AIRetryCount,
		RetryBaseDelay: cfg.AIRetryDelay,
		AttemptTimeout: cfg.AIRequestTimeout,
	}, logger)
}
