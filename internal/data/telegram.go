package data

import (
	"context"

	"github.com/tldread/tldr-bot/internal/biz/repo"
	"github.com/tldread/tldr-bot/telegram"
)

// telegramRepo implements the Messenger repository over the Telegram client
type telegramRepo struct {
	client *telegram.Client
}

// NewTelegramRepo creates a Messenger repository
func NewTelegramRepo(client *telegram.Client) repo.MessengerRepo {
	return &telegramRepo{client: client}
}

// SendReply sends text anchored to replyToID
func (r *telegramRepo) SendReply(ctx context.Context, chatID int64, replyToID int, text string) error {
	return r.client.SendReply(chatID, replyToID, text)
}

// SendText sends text as a plain message
func (r *telegramRepo) SendText(ctx context.Context, chatID int64, text string) error {
	return r.client.SendText(chatID, text)
}
