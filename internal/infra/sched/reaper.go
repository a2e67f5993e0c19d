package sched

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MessageDeleter is the slice of the bot adapter the reaper needs.
// Implementations treat an already-deleted message as success.
type MessageDeleter interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

type timerKey struct {
	chatID    int64
	messageID int
}

// MessageReaper deletes delivered offer messages after their TTL.
// Timers are fire-and-forget and in-memory only; a restart drops pending
// deletions (accepted limitation).
type MessageReaper struct {
	mu     sync.Mutex
	timers map[timerKey]*time.Timer
	bot    MessageDeleter
	log    *zerolog.Logger
}

func NewMessageReaper(bot MessageDeleter, logger *zerolog.Logger) *MessageReaper {
	rLog := logger.With().Str("component", "MessageReaper").Logger()
	return &MessageReaper{
		timers: make(map[timerKey]*time.Timer),
		bot:    bot,
		log:    &rLog,
	}
}

// Schedule arms a one-shot deletion of (chatID, messageID) after delay.
// Re-scheduling the same message resets its timer.
func (r *MessageReaper) Schedule(chatID int64, messageID int, delay time.Duration) {
	key := timerKey{chatID: chatID, messageID: messageID}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[key]; ok {
		t.Stop()
	}
	r.timers[key] = time.AfterFunc(delay, func() { r.fire(key) })
	r.log.Debug().Int64("chat_id", chatID).Int("message_id", messageID).
		Dur("delay", delay).Msg("deletion scheduled")
}

// Cancel disarms a pending deletion, reporting whether one was pending.
func (r *MessageReaper) Cancel(chatID int64, messageID int) bool {
	key := timerKey{chatID: chatID, messageID: messageID}

	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timers[key]
	if !ok {
		return false
	}
	t.Stop()
	delete(r.timers, key)
	return true
}

// Stop disarms every pending timer. Used on shutdown.
func (r *MessageReaper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, t := range r.timers {
		t.Stop()
		delete(r.timers, key)
	}
}

func (r *MessageReaper) fire(key timerKey) {
	r.mu.Lock()
	delete(r.timers, key)
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The adapter swallows message-not-found, so anything surfacing here is
	// a real delivery problem; it stays non-fatal.
	if err := r.bot.DeleteMessage(ctx, key.chatID, key.messageID); err != nil {
		r.log.Warn().Err(err).Int64("chat_id", key.chatID).
			Int("message_id", key.messageID).Msg("deferred deletion failed")
		return
	}
	r.log.Debug().Int64("chat_id", key.chatID).Int("message_id", key.messageID).
		Msg("offer message reaped")
}
