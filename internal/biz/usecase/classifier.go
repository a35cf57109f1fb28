package usecase

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/tldread/tldr-bot/internal/biz/domain"
)

// ClassifierUsecase decides what, if anything, to summarize for an
// inbound message. Classification is pure; the only state is the bot
// handle, written once when the platform resolves it and read-only
// afterwards.
type ClassifierUsecase struct {
	threshold int

	handleMu sync.RWMutex
	handle   string
}

// NewClassifierUsecase creates a classifier. threshold is the message
// length above which a message is summarized; placeholderHandle is the
// mention handle used until SetBotUsername is called.
func NewClassifierUsecase(threshold int, placeholderHandle string) *ClassifierUsecase {
	return &ClassifierUsecase{
		threshold: threshold,
		handle:    strings.TrimPrefix(placeholderHandle, "@"),
	}
}

// SetBotUsername installs the resolved bot handle. Called once at
// startup after GetMe succeeds.
func (uc *ClassifierUsecase) SetBotUsername(username string) {
	uc.handleMu.Lock()
	defer uc.handleMu.Unlock()
	uc.handle = strings.TrimPrefix(username, "@")
}

// BotUsername returns the current mention handle without the @ prefix
func (uc *ClassifierUsecase) BotUsername() string {
	uc.handleMu.RLock()
	defer uc.handleMu.RUnlock()
	return uc.handle
}

// Classify applies the triage rules in priority order:
// non-group chats are ignored, empty messages get a notice, a
// mention-reply summarizes the replied-to message, and anything over
// the length threshold summarizes itself. A mention-reply wins over
// the length rule.
func (uc *ClassifierUsecase) Classify(event *domain.ChatEvent) domain.Disposition {
	if !event.ChatKind.IsGroupLike() {
		return domain.Disposition{Kind: domain.DispositionIgnore}
	}

	if event.Text == "" {
		return domain.Disposition{Kind: domain.DispositionNotifyEmpty}
	}

	if event.ReplyTo != nil && uc.mentionsBot(event.Text) {
		target := event.ReplyTo.BodyText()
		if strings.TrimSpace(target) != "" {
			return domain.Disposition{
				Kind:            domain.DispositionSummarizeReplyTarget,
				Text:            target,
				TargetMessageID: event.ReplyTo.MessageID,
			}
		}
	}

	if utf8.RuneCountInString(event.Text) > uc.threshold {
		return domain.Disposition{
			Kind:            domain.DispositionSummarizeSelf,
			Text:            event.Text,
			TargetMessageID: event.MessageID,
		}
	}

	return domain.Disposition{Kind: domain.DispositionIgnore}
}

// mentionsBot reports whether text mentions the bot handle. The match
// is word-boundary aware: the handle must not be followed by another
// handle rune, so @tldread_bot does not fire on @tldread_bots.
func (uc *ClassifierUsecase) mentionsBot(text string) bool {
	handle := uc.BotUsername()
	if handle == "" {
		return false
	}
	needle := "@" + handle

	for start := 0; start < len(text); {
		idx := strings.Index(text[start:], needle)
		if idx < 0 {
			return false
		}
		end := start + idx + len(needle)
		if end >= len(text) {
			return true
		}
		r, _ := utf8.DecodeRuneInString(text[end:])
		if !isHandleRune(r) {
			return true
		}
		start = end
	}
	return false
}

func isHandleRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
