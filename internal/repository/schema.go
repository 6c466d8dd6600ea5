package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const ordersSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id                 BIGSERIAL PRIMARY KEY,
	name               TEXT NOT NULL,
	sender_name        TEXT NOT NULL DEFAULT '',
	sender_location    TEXT NOT NULL DEFAULT '',
	sender_lat         DOUBLE PRECISION NOT NULL,
	sender_lng         DOUBLE PRECISION NOT NULL,
	recipient_name     TEXT NOT NULL DEFAULT '',
	recipient_location TEXT NOT NULL DEFAULT '',
	recipient_lat      DOUBLE PRECISION NOT NULL,
	recipient_lng      DOUBLE PRECISION NOT NULL,
	date_created       TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_modified      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS orders_date_created_idx ON orders (date_created);
`

// EnsureSchema creates the orders table when it is missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, ordersSchema); err != nil {
		return mapErr("ensure schema", err)
	}
	return nil
}
