package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/application"
	"telegram-referral-bot/internal/config"
	"telegram-referral-bot/internal/domain/ports/adapter"
	"telegram-referral-bot/internal/infra/i18n"
	"telegram-referral-bot/internal/infra/logging"
	"telegram-referral-bot/internal/infra/metrics"
	red "telegram-referral-bot/internal/infra/redis"
	"telegram-referral-bot/internal/infra/sched"
)

// Ensure the adapter satisfies the outbound port.
var _ adapter.Messenger = (*RealTelegramBotAdapter)(nil)

// tgClient is the slice of tgbotapi.BotAPI the adapter calls. Tests swap in
// a recording stub.
type tgClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// RealTelegramBotAdapter polls updates via tgbotapi and delegates to the
// BotFacade. Each update is handled on a worker goroutine so one slow or
// failing event never blocks the rest.
type RealTelegramBotAdapter struct {
	bot         tgClient
	cfg         *config.BotConfig
	referral    *config.ReferralConfig
	facade      *application.BotFacade
	translator  *i18n.Translator
	rateLimiter *red.RateLimiter
	reaper      *sched.MessageReaper
	log         *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(
	cfg *config.Config,
	facade *application.BotFacade,
	translator *i18n.Translator,
	rateLimiter *red.RateLimiter,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if translator == nil {
		return nil, errors.New("translator is nil")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, err
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.Bot.AdminIDs {
		adminMap[id] = struct{}{}
	}

	botLog := logger.With().Str("component", "TelegramBot").Logger()
	r := &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           &cfg.Bot,
		referral:      &cfg.Referral,
		facade:        facade,
		translator:    translator,
		rateLimiter:   rateLimiter,
		log:           &botLog,
		adminIDsMap:   adminMap,
		updateWorkers: cfg.Bot.Workers,
	}
	// The reaper deletes through this adapter, so it is owned here.
	r.reaper = sched.NewMessageReaper(r, logger)
	return r, nil
}

// Reaper exposes the deferred-deletion scheduler for shutdown.
func (r *RealTelegramBotAdapter) Reaper() *sched.MessageReaper { return r.reaper }

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	r.log.Info().Int("workers", r.updateWorkers).Msg("polling started")
	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, up tgbotapi.Update) error {
	ctx = logging.WithTraceID(ctx, uuid.NewString())

	switch {
	case up.Message != nil && up.Message.IsCommand():
		return r.dispatchCommand(ctx, up.Message)
	case up.CallbackQuery != nil:
		return r.dispatchCallback(ctx, up.CallbackQuery)
	}
	return nil
}

func (r *RealTelegramBotAdapter) dispatchCommand(ctx context.Context, msg *tgbotapi.Message) error {
	// Channel posts and service messages carry no sender.
	if msg.From == nil {
		return nil
	}
	cmd := msg.Command()
	handler, ok := r.commandRoutes()[cmd]
	if !ok {
		return nil
	}
	ctx = logging.WithTgID(ctx, msg.From.ID)

	if !r.allowFlood(ctx, msg.From.ID, cmd) {
		metrics.IncCommand(cmd, "flood_limited")
		return r.SendMessage(ctx, msg.Chat.ID, r.translator.T("flood_limited"))
	}

	if err := handler(ctx, msg); err != nil {
		metrics.IncCommand(cmd, "error")
		return err
	}
	metrics.IncCommand(cmd, "ok")
	return nil
}

func (r *RealTelegramBotAdapter) dispatchCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.From == nil {
		return nil
	}
	ctx = logging.WithTgID(ctx, cb.From.ID)
	for _, route := range r.cbPrefixRoutes() {
		if strings.HasPrefix(cb.Data, route.Prefix) {
			return route.Fn(ctx, cb)
		}
	}
	// Unknown payloads are answered silently so the button stops spinning.
	return r.AnswerCallback(ctx, cb.ID, "")
}

// allowFlood consults the Redis flood guard and fails open: a Redis outage
// must not take the bot down with it.
func (r *RealTelegramBotAdapter) allowFlood(ctx context.Context, userID int64, cmd string) bool {
	if r.rateLimiter == nil {
		return true
	}
	ok, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(userID, cmd), r.referral.FloodLimit, r.referral.FloodWindow)
	if err != nil {
		r.log.Warn().Err(err).Msg("flood guard unavailable, failing open")
		return true
	}
	return ok
}

// ---- adapter.Messenger ----

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealTelegramBotAdapter) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.Button) (int, error) {
	return r.sendButtonsReply(ctx, chatID, 0, text, rows)
}

func (r *RealTelegramBotAdapter) EditButtons(ctx context.Context, chatID int64, messageID int, text string, rows [][]adapter.Button) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, buildMarkup(rows))
	_, err := r.bot.Send(edit)
	return err
}

// DeleteMessage removes a message; a message that is already gone counts as
// success per the deferred-deletion contract.
func (r *RealTelegramBotAdapter) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if _, err := r.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		if isMessageGone(err) {
			r.log.Debug().Int64("chat_id", chatID).Int("message_id", messageID).Msg("message already gone")
			return nil
		}
		return err
	}
	return nil
}

func (r *RealTelegramBotAdapter) AnswerCallback(ctx context.Context, callbackID, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	_, err := r.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// sendButtonsReply sends text with an inline keyboard, optionally quoting
// the triggering message, and returns the new message id.
func (r *RealTelegramBotAdapter) sendButtonsReply(ctx context.Context, chatID int64, replyTo int, text string, rows [][]adapter.Button) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = buildMarkup(rows)
	if replyTo != 0 {
		msg.ReplyToMessageID = replyTo
	}
	sent, err := r.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func buildMarkup(rows [][]adapter.Button) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			switch {
			case btn.Data != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			case btn.URL != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			default:
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Text))
			}
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}

func isMessageGone(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "message to delete not found") ||
		strings.Contains(s, "message can't be deleted")
}
