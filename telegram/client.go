package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ReplyMessage is the replied-to message attached to an inbound message
type ReplyMessage struct {
	MessageID int
	Text      string
	Caption   string
}

// Message is one inbound text message with its chat and sender metadata
type Message struct {
	ChatID     int64
	ChatKind   string // private, group, supergroup, channel
	ChatTitle  string
	SenderID   int64
	SenderName string
	MessageID  int
	Text       string
	Command    string // bot command name, empty for regular messages
	ReplyTo    *ReplyMessage
}

// Client wraps the Telegram Bot API with a callback-based receive loop
type Client struct {
	token     string
	api       *tgbotapi.BotAPI
	onMessage func(*Message)
	onReady   func(botUsername string)
	debug     bool
}

// NewClient creates a new Telegram client
func NewClient(token string, debug bool) *Client {
	return &Client{
		token: token,
		debug: debug,
	}
}

// OnMessage sets the inbound message handler. Must be called before Start.
func (c *Client) OnMessage(handler func(*Message)) {
	c.onMessage = handler
}

// OnReady sets a callback invoked once the API connection is up and the
// bot's own username is known.
func (c *Client) OnReady(handler func(botUsername string)) {
	c.onReady = handler
}

// Start connects to the Bot API and runs the long-poll update loop.
// Blocks until Stop is called.
func (c *Client) Start() error {
	api, err := tgbotapi.NewBotAPI(c.token)
	if err != nil {
		return fmt.Errorf("connect bot api: %w", err)
	}
	api.Debug = c.debug
	c.api = api

	fmt.Printf("[Telegram] Bot started: @%s\n", api.Self.UserName)
	if c.onReady != nil {
		c.onReady(api.Self.UserName)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range api.GetUpdatesChan(u) {
		if update.Message == nil {
			continue
		}
		if c.onMessage != nil {
			c.onMessage(convertMessage(update.Message))
		}
	}
	return nil
}

// Stop shuts down the update loop
func (c *Client) Stop() {
	if c.api != nil {
		c.api.StopReceivingUpdates()
	}
}

// BotUsername returns the bot's own handle, empty before Start
func (c *Client) BotUsername() string {
	if c.api == nil {
		return ""
	}
	return c.api.Self.UserName
}

// SendText sends a plain Markdown message to a chat
func (c *Client) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendReply sends a Markdown message anchored to replyToID so the chat
// UI renders it as a reply.
func (c *Client) SendReply(chatID int64, replyToID int, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyToMessageID = replyToID
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

func convertMessage(m *tgbotapi.Message) *Message {
	msg := &Message{
		ChatID:    m.Chat.ID,
		ChatKind:  m.Chat.Type,
		ChatTitle: m.Chat.Title,
		MessageID: m.MessageID,
		Text:      m.Text,
	}

	if m.From != nil {
		msg.SenderID = m.From.ID
		msg.SenderName = m.From.UserName
		if msg.SenderName == "" {
			msg.SenderName = m.From.FirstName
		}
	}
	if msg.SenderName == "" {
		msg.SenderName = "Unknown user"
	}

	if m.IsCommand() {
		msg.Command = m.Command()
	}

	if m.ReplyToMessage != nil {
		msg.ReplyTo = &ReplyMessage{
			MessageID: m.ReplyToMessage.MessageID,
			Text:      m.ReplyToMessage.Text,
			Caption:   m.ReplyToMessage.Caption,
		}
	}

	return msg
}
