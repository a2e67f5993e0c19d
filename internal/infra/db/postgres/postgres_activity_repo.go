package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
)

// ledgerZone fixes the wall clock all ledger rows are stamped and compared
// in, so rate-limit boundaries stay deterministic across machines.
const ledgerZone = "Asia/Tokyo"

// Timestamps are written as zone wall-clock strings into a TIMESTAMP column
// (no tz), so stored values and window cutoffs compare in the same frame.
const tsLayout = "2006-01-02 15:04:05"

// Ensure implementation satisfies the interface.
var _ repository.ActivityRepository = (*activityRepo)(nil)

type activityRepo struct {
	pool *pgxpool.Pool
	loc  *time.Location
	now  func() time.Time
}

func NewActivityRepo(pool *pgxpool.Pool) (repository.ActivityRepository, error) {
	loc, err := time.LoadLocation(ledgerZone)
	if err != nil {
		return nil, fmt.Errorf("load ledger timezone: %w", err)
	}
	return &activityRepo{pool: pool, loc: loc, now: time.Now}, nil
}

func (r *activityRepo) Record(ctx context.Context, tx repository.Tx, rec *model.ActivityRecord) error {
	const q = `
INSERT INTO user_activity (user_id, action, referral_code, timestamp)
VALUES ($1, $2, NULLIF($3, ''), $4);
`
	rec.Timestamp = r.now().In(r.loc)
	_, err := execSQL(ctx, r.pool, tx, q,
		rec.UserID, string(rec.Action), rec.ReferralCode, rec.Timestamp.Format(tsLayout),
	)
	return err
}

func (r *activityRepo) HasAdded(ctx context.Context, tx repository.Tx, userID int64, code string) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM user_activity
   WHERE user_id = $1 AND action = 'add' AND referral_code = $2
);
`
	row, err := pickRow(ctx, r.pool, tx, q, userID, code)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *activityRepo) HasRecentGet(ctx context.Context, tx repository.Tx, userID int64, window time.Duration) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM user_activity
   WHERE user_id = $1 AND action = 'get' AND timestamp > $2
);
`
	cutoff := r.now().In(r.loc).Add(-window).Format(tsLayout)
	row, err := pickRow(ctx, r.pool, tx, q, userID, cutoff)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *activityRepo) CountByAction(ctx context.Context, tx repository.Tx, action model.Action) (int, error) {
	const q = `SELECT COUNT(*) FROM user_activity WHERE action = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, string(action))
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
