package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tldread/tldr-bot/internal/biz/domain"
	"github.com/tldread/tldr-bot/internal/biz/repo"
	"github.com/tldread/tldr-bot/internal/biz/usecase"
	"github.com/tldread/tldr-bot/internal/service"
	"github.com/tldread/tldr-bot/telegram"
)

// WelcomeMessage greets users who /start the bot in a private chat
const WelcomeMessage = "Welcome to TL;DR bot!"

// BotServer receives Telegram updates and hands each event to the
// summarizer pipeline on its own goroutine.
type BotServer struct {
	client     *telegram.Client
	summarizer *service.Summarizer
	classifier *usecase.ClassifierUsecase
	audit      repo.AuditRepo // optional

	// Message deduplication cache
	seenMsgsMu sync.Mutex
	seenMsgs   map[string]time.Time
}

// NewBotServer creates a new bot server. audit may be nil.
func NewBotServer(
	client *telegram.Client,
	summarizer *service.Summarizer,
	classifier *usecase.ClassifierUsecase,
	audit repo.AuditRepo,
) *BotServer {
	return &BotServer{
		client:     client,
		summarizer: summarizer,
		classifier: classifier,
		audit:      audit,
		seenMsgs:   make(map[string]time.Time),
	}
}

// Start wires the handlers and runs the update loop. Blocks until Stop.
func (s *BotServer) Start() error {
	s.client.OnReady(func(botUsername string) {
		// Single initialization write; the classifier reads the handle
		// from here on.
		s.classifier.SetBotUsername(botUsername)
		if s.audit != nil {
			record := domain.AuditEvent{
				Level:   domain.AuditInfo,
				Event:   domain.EventBotStarted,
				Message: "@" + botUsername,
			}
			if err := s.audit.Append(context.Background(), record); err != nil {
				fmt.Printf("[Server] Failed to write startup audit record: %v\n", err)
			}
		}
	})

	s.client.OnMessage(s.handleMessage)
	return s.client.Start()
}

// Stop stops the update loop
func (s *BotServer) Stop() {
	s.client.Stop()
}

// handleMessage converts one update and dispatches it. Each event is
// handled independently; nothing here blocks the update loop.
func (s *BotServer) handleMessage(msg *telegram.Message) {
	// Photos, stickers, voice notes and service messages arrive with no
	// message text. Only text messages enter the pipeline.
	if msg.Text == "" {
		return
	}

	if msg.Command == "start" && msg.ChatKind == string(domain.ChatKindPrivate) {
		if err := s.client.SendText(msg.ChatID, WelcomeMessage); err != nil {
			fmt.Printf("[Server] Failed to send welcome: %v\n", err)
		}
		return
	}

	key := fmt.Sprintf("%d:%d", msg.ChatID, msg.MessageID)
	if s.isMessageSeen(key) {
		fmt.Printf("[Server] Duplicate message ignored: %s\n", key)
		return
	}
	s.markMessageSeen(key)

	event := toChatEvent(msg)
	go s.summarizer.HandleEvent(context.Background(), event)
}

func toChatEvent(msg *telegram.Message) *domain.ChatEvent {
	event := &domain.ChatEvent{
		ChatID:     msg.ChatID,
		ChatKind:   domain.ChatKind(msg.ChatKind),
		ChatTitle:  msg.ChatTitle,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		MessageID:  msg.MessageID,
		Text:       msg.Text,
	}
	if msg.ReplyTo != nil {
		event.ReplyTo = &domain.ReplyRef{
			MessageID: msg.ReplyTo.MessageID,
			Text:      msg.ReplyTo.Text,
			Caption:   msg.ReplyTo.Caption,
		}
	}
	return event
}

// isMessageSeen checks if a message has been processed
func (s *BotServer) isMessageSeen(key string) bool {
	s.seenMsgsMu.Lock()
	defer s.seenMsgsMu.Unlock()
	_, exists := s.seenMsgs[key]
	return exists
}

// markMessageSeen marks a message as processed and prunes old entries
func (s *BotServer) markMessageSeen(key string) {
	s.seenMsgsMu.Lock()
	defer s.seenMsgsMu.Unlock()
	s.seenMsgs[key] = time.Now()

	cutoff := time.Now().Add(-5 * time.Minute)
	for k, ts := range s.seenMsgs {
		if ts.Before(cutoff) {
			delete(s.seenMsgs, k)
		}
	}
}
