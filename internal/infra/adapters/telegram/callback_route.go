package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-referral-bot/internal/domain/ports/adapter"
	"telegram-referral-bot/internal/infra/metrics"
	"telegram-referral-bot/internal/usecase"
)

type cbHandler func(ctx context.Context, cb *tgbotapi.CallbackQuery) error

type prefixCB struct {
	Prefix string
	Fn     cbHandler
}

// cbPrefixRoutes maps the confirmation-protocol payload prefixes. All state
// lives in the payload; unparseable data is treated as not-authorized.
func (r *RealTelegramBotAdapter) cbPrefixRoutes() []prefixCB {
	return []prefixCB{
		{Prefix: usecase.ConfirmPrefix, Fn: r.decisionCBRoute},
		{Prefix: usecase.CancelPrefix, Fn: r.decisionCBRoute},
		{Prefix: usecase.OfferPrefix, Fn: r.offerCBRoute},
	}
}

// offerCBRoute handles the "mark used" press under a delivered code. Only
// the user the offer was addressed to may advance to the confirmation
// prompt; everyone else gets a private not-authorized notice.
func (r *RealTelegramBotAdapter) offerCBRoute(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	claim, err := usecase.ParseOfferPayload(cb.Data)
	if err != nil {
		metrics.IncConfirmation("unauthorized")
		return r.AnswerCallback(ctx, cb.ID, r.translator.T("not_authorized"))
	}

	if !claim.AuthorizedFor(cb.From.ID) {
		r.log.Warn().Int64("tg_id", cb.From.ID).Int64("code_id", claim.CodeID).
			Msg("unauthorized confirmation attempt")
		metrics.IncConfirmation("unauthorized")
		return r.AnswerCallback(ctx, cb.ID, r.translator.T("not_authorized"))
	}

	// Telegram omits Message on buttons older than 48h; with nothing left
	// to edit, just stop the spinner.
	if cb.Message == nil || cb.Message.Chat == nil {
		return r.AnswerCallback(ctx, cb.ID, "")
	}

	rows := [][]adapter.Button{{
		{Text: r.translator.T("button_confirm"), Data: usecase.ConfirmPayload(claim.CodeID)},
		{Text: r.translator.T("button_cancel"), Data: usecase.CancelPayload(claim.CodeID)},
	}}
	if err := r.EditButtons(ctx, cb.Message.Chat.ID, cb.Message.MessageID,
		r.translator.T("confirm_usage_prompt"), rows); err != nil {
		return err
	}
	metrics.IncConfirmation("prompted")
	return r.AnswerCallback(ctx, cb.ID, "")
}

// decisionCBRoute handles the Yes/No press on the confirmation prompt.
// Yes deletes the message (terminal); No leaves the prompt as-is and only
// answers with a transient cancellation notice.
func (r *RealTelegramBotAdapter) decisionCBRoute(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	codeID, confirmed, err := usecase.ParseDecisionPayload(cb.Data)
	if err != nil {
		metrics.IncConfirmation("unauthorized")
		return r.AnswerCallback(ctx, cb.ID, r.translator.T("not_authorized"))
	}

	if !confirmed {
		r.log.Info().Int64("tg_id", cb.From.ID).Int64("code_id", codeID).Msg("usage confirmation cancelled")
		metrics.IncConfirmation("cancelled")
		return r.AnswerCallback(ctx, cb.ID, r.translator.T("action_cancelled"))
	}

	// The offer message goes away now; no need for the deferred deletion.
	// On messages Telegram no longer attaches (48h+) there is nothing left
	// to delete.
	if cb.Message != nil && cb.Message.Chat != nil {
		r.reaper.Cancel(cb.Message.Chat.ID, cb.Message.MessageID)
		if err := r.DeleteMessage(ctx, cb.Message.Chat.ID, cb.Message.MessageID); err != nil {
			r.log.Warn().Err(err).Int64("code_id", codeID).Msg("failed to delete confirmed offer message")
		}
	}
	r.log.Info().Int64("tg_id", cb.From.ID).Int64("code_id", codeID).Msg("code usage confirmed")
	metrics.IncConfirmation("consumed")
	return r.AnswerCallback(ctx, cb.ID, "")
}
