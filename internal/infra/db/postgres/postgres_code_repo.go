package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
)

// Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

// Ensure implementation satisfies the interface.
var _ repository.CodeRepository = (*codeRepo)(nil)

type codeRepo struct {
	pool *pgxpool.Pool
}

func NewCodeRepo(pool *pgxpool.Pool) repository.CodeRepository {
	return &codeRepo{pool: pool}
}

// Add inserts a new code row. The UNIQUE constraint on codes.code is the
// authoritative duplicate check; a violation maps to domain.ErrAlreadyExists.
func (r *codeRepo) Add(ctx context.Context, tx repository.Tx, value string) (int64, error) {
	const q = `INSERT INTO codes (code) VALUES ($1) RETURNING id;`

	row, err := pickRow(ctx, r.pool, tx, q, value)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, domain.ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *codeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.ReferralCode, error) {
	const q = `SELECT id, code, usage_count FROM codes ORDER BY id;`

	rows, err := pickRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ReferralCode
	for rows.Next() {
		var c model.ReferralCode
		if err := rows.Scan(&c.ID, &c.Value, &c.UsageCount); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *codeRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	const q = `DELETE FROM codes WHERE id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	return err
}

func (r *codeRepo) DeleteByValue(ctx context.Context, tx repository.Tx, value string) (bool, error) {
	const q = `DELETE FROM codes WHERE code = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, value)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *codeRepo) IncrementUsage(ctx context.Context, tx repository.Tx, id int64) error {
	const q = `UPDATE codes SET usage_count = usage_count + 1 WHERE id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	return err
}

func (r *codeRepo) Exists(ctx context.Context, tx repository.Tx, value string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM codes WHERE code = $1);`

	row, err := pickRow(ctx, r.pool, tx, q, value)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}
