package usecase

import (
	"context"
	"time"

	"telegram-referral-bot/internal/domain/ports/repository"
)

// EligibilityPolicy holds the pure read-side decisions over the ledger.
// Both checks run before the corresponding mutation; the ledger write is
// the final step of an accepted add/get, so a failed delivery never
// consumes a user's quota.
type EligibilityPolicy struct {
	ledger repository.ActivityRepository
	window time.Duration
}

func NewEligibilityPolicy(ledger repository.ActivityRepository, window time.Duration) *EligibilityPolicy {
	if window <= 0 {
		window = time.Hour
	}
	return &EligibilityPolicy{ledger: ledger, window: window}
}

// CanAdd reports whether the user may add this exact code value. One user
// may add a given value at most once, ever, even if the code was later
// removed from the pool.
func (p *EligibilityPolicy) CanAdd(ctx context.Context, tx repository.Tx, userID int64, code string) (bool, error) {
	added, err := p.ledger.HasAdded(ctx, tx, userID, code)
	if err != nil {
		return false, err
	}
	return !added, nil
}

// CanGet reports whether the user may receive a code: one successful get
// per rolling window, measured from the most recent get record.
func (p *EligibilityPolicy) CanGet(ctx context.Context, tx repository.Tx, userID int64) (bool, error) {
	recent, err := p.ledger.HasRecentGet(ctx, tx, userID, p.window)
	if err != nil {
		return false, err
	}
	return !recent, nil
}

// Window exposes the configured rate-limit window.
func (p *EligibilityPolicy) Window() time.Duration { return p.window }
