package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/ports/adapter"
	"telegram-referral-bot/internal/usecase"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":    r.handleStartCommand,
		"povo":     r.handleRequestCommand,
		"povo_add": r.handleAddCommand,

		// Operator commands are wrapped in the adminOnly middleware.
		"povo_del": r.adminOnly(r.handleDeleteCommand),
		"list":     r.adminOnly(r.handleListCommand),
	}
}

func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if _, isAdmin := r.adminIDsMap[message.From.ID]; !isAdmin {
			r.log.Warn().Int64("tg_id", message.From.ID).Str("command", message.Command()).
				Msg("unauthorized admin command")
			return r.SendMessage(ctx, message.Chat.ID, r.translator.T("not_authorized"))
		}
		return next(ctx, message)
	}
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	r.log.Info().Int64("tg_id", message.From.ID).Msg("/start received")
	return r.SendMessage(ctx, message.Chat.ID, r.translator.T("welcome_message"))
}

// handleRequestCommand serves /povo: hand out a random referral code with a
// "mark used" button and schedule the offer message for deferred deletion.
func (r *RealTelegramBotAdapter) handleRequestCommand(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID

	offer, err := r.facade.RequestCode(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("rate_limit_exceeded"))
	case errors.Is(err, domain.ErrNoCodes):
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("no_codes_available"))
	case err != nil:
		r.log.Error().Err(err).Int64("tg_id", userID).Msg("code request failed")
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}

	rows := [][]adapter.Button{{{
		Text: r.translator.T("button_used"),
		Data: usecase.OfferPayload(offer.CodeID, offer.UserID),
	}}}
	msgID, err := r.sendButtonsReply(ctx, message.Chat.ID, message.MessageID,
		r.translator.T("referral_code_msg", offer.Value), rows)
	if err != nil {
		return err
	}

	r.reaper.Schedule(message.Chat.ID, msgID, r.referral.OfferTTL)
	return nil
}

// handleAddCommand serves /povo_add <code>.
func (r *RealTelegramBotAdapter) handleAddCommand(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	value := strings.TrimSpace(message.CommandArguments())
	if value == "" {
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("usage_add"))
	}

	err := r.facade.SubmitCode(ctx, userID, value)
	switch {
	case errors.Is(err, domain.ErrInvalidCode), errors.Is(err, domain.ErrNotEligible):
		// Both read as one message so a rejected re-add leaks nothing about
		// which codes are live.
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("invalid_or_duplicate_code"))
	case errors.Is(err, domain.ErrAlreadyExists):
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("code_already_exists"))
	case err != nil:
		r.log.Error().Err(err).Int64("tg_id", userID).Msg("code submit failed")
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}

	if err := r.SendMessage(ctx, message.Chat.ID, r.translator.T("code_added_success")); err != nil {
		return err
	}

	// Keep group chats clean: drop the original command message with the
	// plain-text code in it.
	if message.Chat.IsGroup() || message.Chat.IsSuperGroup() {
		if err := r.DeleteMessage(ctx, message.Chat.ID, message.MessageID); err != nil {
			r.log.Warn().Err(err).Msg("failed to delete add command message")
		}
	}
	return nil
}

// handleDeleteCommand serves /povo_del <code>.
func (r *RealTelegramBotAdapter) handleDeleteCommand(ctx context.Context, message *tgbotapi.Message) error {
	value := strings.TrimSpace(message.CommandArguments())
	if value == "" {
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("usage_del"))
	}

	err := r.facade.RemoveCode(ctx, value)
	switch {
	case errors.Is(err, domain.ErrCodeNotFound):
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("code_not_found"))
	case err != nil:
		r.log.Error().Err(err).Msg("code removal failed")
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}
	return r.SendMessage(ctx, message.Chat.ID, r.translator.T("code_deleted_success"))
}

// handleListCommand serves /list for operators.
func (r *RealTelegramBotAdapter) handleListCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleList(ctx, r.translator)
	if err != nil {
		r.log.Error().Err(err).Msg("code listing failed")
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}
