package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the sales journal tables.
const Schema = `
	CREATE TABLE IF NOT EXISTS sales (
		id UUID PRIMARY KEY,
		product TEXT NOT NULL,
		size TEXT NOT NULL,
		sticker BOOLEAN NOT NULL DEFAULT FALSE,
		price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
		surcharge_cents BIGINT NOT NULL CHECK (surcharge_cents >= 0),
		total_cents BIGINT NOT NULL CHECK (total_cents >= 0),
		paid_cents BIGINT NOT NULL CHECK (paid_cents >= total_cents),
		change_cents BIGINT NOT NULL CHECK (change_cents >= 0),
		sugar_packets BIGINT NOT NULL DEFAULT 0 CHECK (sugar_packets >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales (created_at DESC);

	CREATE TABLE IF NOT EXISTS sale_consumption (
		sale_id UUID NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		resource TEXT NOT NULL,
		quantity BIGINT NOT NULL CHECK (quantity >= 0),
		PRIMARY KEY (sale_id, resource)
	);
`

// Migrate applies Schema. It is safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply sales schema: %w", err)
	}
	return nil
}
