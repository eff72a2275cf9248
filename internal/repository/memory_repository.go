package repository

import (
	"context"
	"sort"
	"sync"

	"brewbox/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// memoryRepository keeps the journal in process memory. It is used when no
// database is configured and is lost on restart.
type memoryRepository struct {
	mu     sync.RWMutex
	sales  map[uuid.UUID]model.Receipt
	order  []uuid.UUID
	logger zerolog.Logger
}

// NewMemoryRepository creates an in-memory sales journal.
func NewMemoryRepository(logger zerolog.Logger) SaleRepository {
	return &memoryRepository{
		sales:  make(map[uuid.UUID]model.Receipt),
		logger: logger.With().Str("repository", "memory_sale").Logger(),
	}
}

func (r *memoryRepository) RecordSale(ctx context.Context, receipt *model.Receipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sales[receipt.ID]; exists {
		return model.NewDomainError(model.ErrCodeInvalidInput, "sale "+receipt.ID.String()+" already recorded")
	}

	stored := *receipt
	stored.Consumed = receipt.Consumed.Clone()
	r.sales[receipt.ID] = stored
	r.order = append(r.order, receipt.ID)

	r.logger.Debug().Str("order_id", receipt.ID.String()).Msg("sale recorded")
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	receipt, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	receipt.Consumed = receipt.Consumed.Clone()
	return &receipt, nil
}

func (r *memoryRepository) List(ctx context.Context, limit, offset int) ([]model.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]model.Receipt, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		all = append(all, r.sales[r.order[i]])
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []model.Receipt{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	page := make([]model.Receipt, 0, end-offset)
	for _, receipt := range all[offset:end] {
		receipt.Consumed = receipt.Consumed.Clone()
		page = append(page, receipt)
	}
	return page, nil
}
