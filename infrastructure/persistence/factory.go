package persistence

import (
	"context"

	"go.uber.org/zap"

	"glossary-backend/application/ports"
	"glossary-backend/infrastructure/config"
	"glossary-backend/infrastructure/persistence/cosmos"
	"glossary-backend/infrastructure/persistence/memory"
)

// Mode identifies which backend the process selected at startup.
type Mode string

const (
	ModeCosmos Mode = "cosmos"
	ModeMemory Mode = "memory"
)

// Selection is the startup outcome of the backend choice. The mode is
// exposed for the health endpoint only; callers of the store never branch
// on it.
type Selection struct {
	Store ports.TermStore
	Mode  Mode
}

// New picks the storage backend once for the process lifetime. When the
// Cosmos endpoint is configured and provisioning succeeds the remote
// backend wins; any failure logs a degradation notice and the process
// stays on the volatile backend permanently. There is no retry-to-remote.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) Selection {
	if cfg.CosmosConfigured() {
		store, err := cosmos.NewTermStore(cosmos.Options{
			Endpoint:   cfg.CosmosEndpoint,
			Key:        cfg.CosmosKey,
			Database:   cfg.CosmosDatabase,
			Container:  cfg.CosmosContainer,
			Throughput: cfg.CosmosThroughput,
		}, logger)
		if err == nil {
			if err = store.Initialize(ctx); err == nil {
				return Selection{Store: store, Mode: ModeCosmos}
			}
		}
		logger.Warn("Cosmos initialization failed, continuing with in-memory store",
			zap.String("endpoint", cfg.CosmosEndpoint),
			zap.Error(err),
		)
	} else {
		logger.Warn("Cosmos endpoint not configured, using in-memory store")
	}

	return Selection{Store: memory.NewTermStore(logger), Mode: ModeMemory}
}
