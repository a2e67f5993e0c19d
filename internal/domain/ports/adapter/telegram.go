package adapter

import "context"

// Button is one inline keyboard button. Data carries callback payload,
// URL opens a link; Data wins when both are set.
type Button struct {
	Text string
	Data string
	URL  string
}

// Messenger is the outbound surface the core needs from the chat front end.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	// SendButtons sends text with an inline keyboard and returns the new
	// message id for later edits/deletion.
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]Button) (int, error)
	EditButtons(ctx context.Context, chatID int64, messageID int, text string, rows [][]Button) error
	// DeleteMessage removes a message. A message that is already gone is
	// treated as success.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}
