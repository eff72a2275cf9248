package machine

import (
	"context"
	"fmt"

	"brewbox/internal/catalog"
	"brewbox/internal/config"
	"brewbox/internal/database"
	"brewbox/internal/inventory"
	"brewbox/internal/metrics"
	"brewbox/internal/service"

	"github.com/rs/zerolog"
)

// Machine is an assembled order engine together with the resources it
// holds open.
type Machine struct {
	Service service.MachineService
	close   func()
}

// Open loads the catalog, stocks the ledger, opens the sales journal and
// builds the engine. recorder may be nil.
func Open(ctx context.Context, cfg *config.Config, recorder *metrics.Recorder, logger zerolog.Logger) (*Machine, error) {
	cat, err := LoadCatalog(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ledger, err := inventory.NewLedger(cfg.Machine.InitialStock(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to stock machine: %w", err)
	}

	journal, closeJournal, err := database.OpenJournal(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	svc := service.NewMachineService(cat, ledger, journal, recorder, service.Options{
		MaxSugarPackets: cfg.Machine.MaxSugarPackets,
	}, logger)

	logger.Info().
		Int("menu_entries", len(cat.Entries())).
		Str("sticker_price", cat.StickerPrice().String()).
		Bool("journal_db", cfg.Database.Enabled).
		Msg("machine ready")

	return &Machine{Service: svc, close: closeJournal}, nil
}

// Close releases the journal.
func (m *Machine) Close() {
	if m.close != nil {
		m.close()
	}
}

// LoadCatalog returns the built-in menu when no catalog path is configured.
// Otherwise the catalog is read from S3 when enabled, falling back to the
// local file system.
func LoadCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		sticker, err := cfg.Machine.StickerCents()
		if err != nil {
			return nil, fmt.Errorf("failed to parse sticker price: %w", err)
		}
		cat, err := catalog.Default(sticker)
		if err != nil {
			return nil, fmt.Errorf("failed to build default catalog: %w", err)
		}
		logger.Info().Msg("using built-in catalog")
		return cat, nil
	}

	fileLoader := catalog.NewFileLoader(logger)

	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for catalog (S3 disabled)")
	}

	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	cat, err := loader.Load(ctx, cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}
