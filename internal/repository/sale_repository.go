package repository

import (
	"context"
	"errors"
	"fmt"

	"brewbox/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// saleRepository implements SaleRepository using PostgreSQL.
type saleRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSaleRepository creates a new PostgreSQL-backed sales journal.
func NewSaleRepository(pool *pgxpool.Pool, logger zerolog.Logger) SaleRepository {
	return &saleRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "sale").Logger(),
	}
}

// RecordSale inserts the sale and its consumption rows in one transaction.
func (r *saleRepository) RecordSale(ctx context.Context, receipt *model.Receipt) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	query := `
		INSERT INTO sales (id, product, size, sticker, price_cents, surcharge_cents,
			total_cents, paid_cents, change_cents, sugar_packets, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.Exec(ctx, query,
		receipt.ID,
		receipt.Product,
		receipt.Size,
		receipt.Sticker,
		int64(receipt.Price),
		int64(receipt.Surcharge),
		int64(receipt.Total),
		int64(receipt.Paid),
		int64(receipt.Change),
		receipt.SugarPackets,
		receipt.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", receipt.ID.String()).
			Msg("failed to record sale")
		return fmt.Errorf("failed to record sale: %w", err)
	}

	if err = r.insertConsumption(ctx, tx, receipt); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", receipt.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to record sale: %w", err)
	}

	r.logger.Debug().
		Str("order_id", receipt.ID.String()).
		Msg("sale recorded successfully")

	return nil
}

func (r *saleRepository) insertConsumption(ctx context.Context, tx pgx.Tx, receipt *model.Receipt) error {
	kinds := receipt.Consumed.Kinds()
	if len(kinds) == 0 {
		return nil
	}

	query := `
		INSERT INTO sale_consumption (sale_id, resource, quantity)
		VALUES ($1, $2, $3)
	`

	batch := &pgx.Batch{}
	for _, kind := range kinds {
		batch.Queue(query, receipt.ID, string(kind), receipt.Consumed[kind])
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for _, kind := range kinds {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", receipt.ID.String()).
				Str("resource", string(kind)).
				Msg("failed to record consumption")
			return fmt.Errorf("failed to record consumption: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a receipt and its consumption by order ID.
func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	query := `
		SELECT id, product, size, sticker, price_cents, surcharge_cents,
			total_cents, paid_cents, change_cents, sugar_packets, created_at
		FROM sales
		WHERE id = $1
	`

	receipt, err := scanReceipt(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("sale not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query sale")
		return nil, fmt.Errorf("failed to query sale: %w", err)
	}

	consumed, err := r.consumption(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	receipt.Consumed = consumed[id]

	return receipt, nil
}

// List returns receipts, newest first.
func (r *saleRepository) List(ctx context.Context, limit, offset int) ([]model.Receipt, error) {
	query := `
		SELECT id, product, size, sticker, price_cents, surcharge_cents,
			total_cents, paid_cents, change_cents, sugar_packets, created_at
		FROM sales
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to query sales")
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	receipts := make([]model.Receipt, 0, limit)
	ids := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan sale row")
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		receipts = append(receipts, *receipt)
		ids = append(ids, receipt.ID)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating sale rows")
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	if len(ids) == 0 {
		return receipts, nil
	}

	consumed, err := r.consumption(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range receipts {
		receipts[i].Consumed = consumed[receipts[i].ID]
	}

	return receipts, nil
}

func (r *saleRepository) consumption(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Requirements, error) {
	query := `
		SELECT sale_id, resource, quantity
		FROM sale_consumption
		WHERE sale_id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query consumption")
		return nil, fmt.Errorf("failed to query consumption: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]model.Requirements, len(ids))
	for rows.Next() {
		var (
			saleID   uuid.UUID
			resource string
			quantity int64
		)
		if err := rows.Scan(&saleID, &resource, &quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan consumption row")
			return nil, fmt.Errorf("failed to scan consumption: %w", err)
		}
		if result[saleID] == nil {
			result[saleID] = model.Requirements{}
		}
		result[saleID][model.ResourceKind(resource)] = quantity
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating consumption rows")
		return nil, fmt.Errorf("error iterating consumption: %w", err)
	}

	return result, nil
}

func scanReceipt(row pgx.Row) (*model.Receipt, error) {
	var receipt model.Receipt
	var price, surcharge, total, paid, change, packets int64
	err := row.Scan(
		&receipt.ID,
		&receipt.Product,
		&receipt.Size,
		&receipt.Sticker,
		&price,
		&surcharge,
		&total,
		&paid,
		&change,
		&packets,
		&receipt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	receipt.Price = model.Cents(price)
	receipt.Surcharge = model.Cents(surcharge)
	receipt.Total = model.Cents(total)
	receipt.Paid = model.Cents(paid)
	receipt.Change = model.Cents(change)
	receipt.SugarPackets = packets
	return &receipt, nil
}
