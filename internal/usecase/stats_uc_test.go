package usecase

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
)

func TestStatsSummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	codes := newMemCodeRepo()
	ledger := newMemActivityRepo()
	logger := zerolog.Nop()
	uc := NewStatsUseCase(codes, ledger, &logger)

	s, err := uc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary empty: %v", err)
	}
	if s.Codes != 0 || s.TotalUsage != 0 || s.Adds != 0 || s.Gets != 0 {
		t.Fatalf("empty stats = %+v", s)
	}

	id1, _ := codes.Add(ctx, repository.NoTX, "S1")
	id2, _ := codes.Add(ctx, repository.NoTX, "S2")
	codes.store[id1].UsageCount = 3
	codes.store[id2].UsageCount = 1
	for _, rec := range []*model.ActivityRecord{
		{UserID: 1, Action: model.ActionAdd, ReferralCode: "S1"},
		{UserID: 2, Action: model.ActionAdd, ReferralCode: "S2"},
		{UserID: 3, Action: model.ActionGet, ReferralCode: "S1"},
	} {
		if err := ledger.Record(ctx, repository.NoTX, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	s, err = uc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.Codes != 2 || s.TotalUsage != 4 || s.Adds != 2 || s.Gets != 1 {
		t.Fatalf("stats = %+v", s)
	}
}
