package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
	"telegram-referral-bot/internal/infra/logging"
)

var _ StatsUseCase = (*statsUC)(nil)

// Stats is the operator summary served by the admin API.
type Stats struct {
	Codes      int `json:"codes"`
	TotalUsage int `json:"total_usage"`
	Adds       int `json:"adds"`
	Gets       int `json:"gets"`
}

type StatsUseCase interface {
	Summary(ctx context.Context) (*Stats, error)
}

type statsUC struct {
	codes  repository.CodeRepository
	ledger repository.ActivityRepository
	log    *zerolog.Logger
}

func NewStatsUseCase(codes repository.CodeRepository, ledger repository.ActivityRepository, logger *zerolog.Logger) *statsUC {
	ucLog := logger.With().Str("component", "StatsUC").Logger()
	return &statsUC{codes: codes, ledger: ledger, log: &ucLog}
}

func (u *statsUC) Summary(ctx context.Context) (*Stats, error) {
	defer logging.TraceDuration(u.log, "StatsUC.Summary")()

	all, err := u.codes.ListAll(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	adds, err := u.ledger.CountByAction(ctx, repository.NoTX, model.ActionAdd)
	if err != nil {
		return nil, err
	}
	gets, err := u.ledger.CountByAction(ctx, repository.NoTX, model.ActionGet)
	if err != nil {
		return nil, err
	}

	s := &Stats{Codes: len(all), Adds: adds, Gets: gets}
	for _, c := range all {
		s.TotalUsage += c.UsageCount
	}
	return s, nil
}
