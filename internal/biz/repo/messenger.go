package repo

import "context"

// MessengerRepo is the chat-platform send boundary
type MessengerRepo interface {
	// SendReply sends text anchored to replyToID so the chat UI renders
	// it as a reply, using Markdown rendering
	SendReply(ctx context.Context, chatID int64, replyToID int, text string) error

	// SendText sends text as a plain, unanchored message
	SendText(ctx context.Context, chatID int64, text string) error
}
