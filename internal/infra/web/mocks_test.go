package web

import (
	"context"

	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/usecase"
)

type stubCodeUC struct {
	codes     []*model.ReferralCode
	removeErr error
	listErr   error
}

var _ usecase.CodeUseCase = (*stubCodeUC)(nil)

func (s *stubCodeUC) Request(ctx context.Context, userID int64) (*model.Offer, error) {
	return nil, nil
}

func (s *stubCodeUC) Submit(ctx context.Context, userID int64, value string) error {
	return nil
}

func (s *stubCodeUC) Remove(ctx context.Context, value string) error {
	return s.removeErr
}

func (s *stubCodeUC) List(ctx context.Context) ([]*model.ReferralCode, error) {
	return s.codes, s.listErr
}

type stubStatsUC struct {
	stats *usecase.Stats
	err   error
}

var _ usecase.StatsUseCase = (*stubStatsUC)(nil)

func (s *stubStatsUC) Summary(ctx context.Context) (*usecase.Stats, error) {
	return s.stats, s.err
}
