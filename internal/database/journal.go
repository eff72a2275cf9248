package database

import (
	"context"
	"fmt"

	"brewbox/internal/config"
	"brewbox/internal/repository"

	"github.com/rs/zerolog"
)

// OpenJournal returns the sales journal selected by cfg: PostgreSQL when
// enabled, process memory otherwise. The returned close function is never
// nil.
func OpenJournal(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (repository.SaleRepository, func(), error) {
	if !cfg.Enabled {
		logger.Info().Msg("sales journal kept in memory")
		return repository.NewMemoryRepository(logger), func() {}, nil
	}

	pool, err := NewPool(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sales journal: %w", err)
	}

	if err := repository.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info().Str("database", cfg.Database).Msg("sales journal stored in PostgreSQL")
	return repository.NewSaleRepository(pool, logger), pool.Close, nil
}
