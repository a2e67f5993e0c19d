package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPgxPool builds a pgx connection pool from a DSN.
func NewPgxPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the two tables the bot depends on. The UNIQUE
// constraint on codes.code turns check-then-insert into an atomic
// insert-if-absent: a concurrent duplicate submit loses at the constraint,
// not at the application-level existence check.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
CREATE TABLE IF NOT EXISTS codes (
    id          BIGSERIAL PRIMARY KEY,
    code        TEXT NOT NULL UNIQUE,
    usage_count INT  NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS user_activity (
    id            BIGSERIAL PRIMARY KEY,
    user_id       BIGINT NOT NULL,
    action        TEXT   NOT NULL,
    referral_code TEXT,
    timestamp     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_user_activity_user_action
    ON user_activity (user_id, action, timestamp);
`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
