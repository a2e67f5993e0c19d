package usecase

import (
	"context"
	"testing"
	"time"

	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
)

func TestEligibility_CanAdd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledger := newMemActivityRepo()
	policy := NewEligibilityPolicy(ledger, time.Hour)

	ok, err := policy.CanAdd(ctx, repository.NoTX, 1, "NEW1")
	if err != nil || !ok {
		t.Fatalf("fresh user: ok=%v err=%v", ok, err)
	}

	rec := &model.ActivityRecord{UserID: 1, Action: model.ActionAdd, ReferralCode: "NEW1"}
	if err := ledger.Record(ctx, repository.NoTX, rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if ok, _ := policy.CanAdd(ctx, repository.NoTX, 1, "NEW1"); ok {
		t.Fatal("repeat add of the same value must be blocked")
	}
	if ok, _ := policy.CanAdd(ctx, repository.NoTX, 1, "NEW2"); !ok {
		t.Fatal("a different value must stay allowed")
	}
	if ok, _ := policy.CanAdd(ctx, repository.NoTX, 2, "NEW1"); !ok {
		t.Fatal("another user must stay allowed")
	}
}

func TestEligibility_CanGetWindowBoundary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledger := newMemActivityRepo()
	base := time.Now()
	ledger.now = func() time.Time { return base }
	policy := NewEligibilityPolicy(ledger, time.Hour)

	rec := &model.ActivityRecord{UserID: 3, Action: model.ActionGet, ReferralCode: "X1"}
	if err := ledger.Record(ctx, repository.NoTX, rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	ledger.now = func() time.Time { return base.Add(59 * time.Minute) }
	if ok, _ := policy.CanGet(ctx, repository.NoTX, 3); ok {
		t.Fatal("inside the window the user must be blocked")
	}

	ledger.now = func() time.Time { return base.Add(time.Hour + time.Second) }
	if ok, _ := policy.CanGet(ctx, repository.NoTX, 3); !ok {
		t.Fatal("past the window the user must be allowed")
	}
}

func TestEligibility_DefaultWindow(t *testing.T) {
	t.Parallel()

	policy := NewEligibilityPolicy(newMemActivityRepo(), 0)
	if policy.Window() != time.Hour {
		t.Fatalf("default window = %v, want 1h", policy.Window())
	}
}
