package repository

import (
	"context"
	"time"

	"telegram-referral-bot/internal/domain/model"
)

// ActivityRepository is the append-only ledger of add/get actions.
type ActivityRepository interface {
	// Record appends one entry stamped with the current instant in the
	// ledger's designated timezone. rec.Timestamp is set by the repository.
	Record(ctx context.Context, tx Tx, rec *model.ActivityRecord) error
	// HasAdded reports whether any prior add record exists for this exact
	// (user, code) pair.
	HasAdded(ctx context.Context, tx Tx, userID int64, code string) (bool, error)
	// HasRecentGet reports whether any get record for this user falls within
	// `window` of now.
	HasRecentGet(ctx context.Context, tx Tx, userID int64, window time.Duration) (bool, error)
	// CountByAction returns the total number of ledger entries for an action.
	CountByAction(ctx context.Context, tx Tx, action model.Action) (int, error)
}
