package repository

import (
	"context"

	"telegram-referral-bot/internal/domain/model"
)

// CodeRepository is the persistence facade over the referral-code pool.
// It carries no business rules; sequencing (threshold retirement,
// duplicate handling) belongs to the use-case layer.
type CodeRepository interface {
	// Add inserts a new code with usage_count=0 and returns the assigned id.
	// A value that is already live maps to domain.ErrAlreadyExists.
	Add(ctx context.Context, tx Tx, value string) (int64, error)
	// ListAll returns every live code, ordered by id so that one call yields
	// a stable snapshot.
	ListAll(ctx context.Context, tx Tx) ([]*model.ReferralCode, error)
	// Delete removes a code by id. Idempotent; absent ids are not an error.
	Delete(ctx context.Context, tx Tx, id int64) error
	// DeleteByValue removes a code by exact value match and reports whether
	// a row was removed.
	DeleteByValue(ctx context.Context, tx Tx, value string) (bool, error)
	// IncrementUsage bumps usage_count by one. No-op for absent ids.
	IncrementUsage(ctx context.Context, tx Tx, id int64) error
	// Exists reports whether a live code with this value exists.
	Exists(ctx context.Context, tx Tx, value string) (bool, error)
}
