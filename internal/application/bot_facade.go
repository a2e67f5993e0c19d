package application

import (
	"context"
	"fmt"
	"strings"

	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/infra/i18n"
	"telegram-referral-bot/internal/usecase"
)

// BotFacade composes usecases into the high-level bot operations the
// Telegram adapter forwards to.
type BotFacade struct {
	CodeUC  usecase.CodeUseCase
	StatsUC usecase.StatsUseCase
}

func NewBotFacade(codeUC usecase.CodeUseCase, statsUC usecase.StatsUseCase) *BotFacade {
	return &BotFacade{CodeUC: codeUC, StatsUC: statsUC}
}

// RequestCode asks the allocation engine for an offer addressed to userID.
func (b *BotFacade) RequestCode(ctx context.Context, userID int64) (*model.Offer, error) {
	if b.CodeUC == nil {
		return nil, fmt.Errorf("code usecase not available")
	}
	return b.CodeUC.Request(ctx, userID)
}

// SubmitCode adds a user-provided code to the pool.
func (b *BotFacade) SubmitCode(ctx context.Context, userID int64, value string) error {
	if b.CodeUC == nil {
		return fmt.Errorf("code usecase not available")
	}
	return b.CodeUC.Submit(ctx, userID, value)
}

// RemoveCode deletes a code by value.
func (b *BotFacade) RemoveCode(ctx context.Context, value string) error {
	if b.CodeUC == nil {
		return fmt.Errorf("code usecase not available")
	}
	return b.CodeUC.Remove(ctx, value)
}

// HandleList renders the pool for the operator /list command.
func (b *BotFacade) HandleList(ctx context.Context, tr *i18n.Translator) (string, error) {
	if b.CodeUC == nil {
		return "", fmt.Errorf("code usecase not available")
	}
	codes, err := b.CodeUC.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list codes: %w", err)
	}
	if len(codes) == 0 {
		return tr.T("list_empty"), nil
	}
	sb := strings.Builder{}
	sb.WriteString(tr.T("list_header") + "\n")
	for _, c := range codes {
		sb.WriteString(tr.T("list_entry", c.ID, c.Value, c.UsageCount) + "\n")
	}
	return sb.String(), nil
}
