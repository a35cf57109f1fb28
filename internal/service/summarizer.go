package service

import (
	"context"
	"fmt"

	"github.com/tldread/tldr-bot/internal/biz/domain"
	"github.com/tldread/tldr-bot/internal/biz/repo"
	"github.com/tldread/tldr-bot/internal/biz/usecase"
)

// EmptyMessageNotice is the user-visible reply for empty messages
const EmptyMessageNotice = "Please send a non-empty message."

// Summarizer is the message-triage and summarization pipeline: it
// classifies an inbound event, builds the prompt, streams the summary
// and delivers it back with reply semantics and fallback.
type Summarizer struct {
	classifier *usecase.ClassifierUsecase
	prompts    *usecase.PromptBuilder
	summaries  *usecase.SummarizeUsecase
	messenger  repo.MessengerRepo
	audit      repo.AuditRepo // optional; nil disables audit reporting
}

// NewSummarizer creates the pipeline service. audit may be nil.
func NewSummarizer(
	classifier *usecase.ClassifierUsecase,
	prompts *usecase.PromptBuilder,
	summaries *usecase.SummarizeUsecase,
	messenger repo.MessengerRepo,
	audit repo.AuditRepo,
) *Summarizer {
	return &Summarizer{
		classifier: classifier,
		prompts:    prompts,
		summaries:  summaries,
		messenger:  messenger,
		audit:      audit,
	}
}

// HandleEvent runs one inbound event through the pipeline. It never
// panics past this boundary and never returns an error to the caller:
// every terminal outcome is reported through the audit sink instead.
func (s *Summarizer) HandleEvent(ctx context.Context, event *domain.ChatEvent) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Summarizer] Panic handling message %d in chat %d: %v\n",
				event.MessageID, event.ChatID, r)
			s.report(ctx, event, domain.AuditError, domain.EventHandlerPanic, fmt.Sprintf("%v", r))
		}
	}()

	disp := s.classifier.Classify(event)

	switch disp.Kind {
	case domain.DispositionIgnore:
		return

	case domain.DispositionNotifyEmpty:
		if err := s.messenger.SendText(ctx, event.ChatID, EmptyMessageNotice); err != nil {
			fmt.Printf("[Summarizer] Failed to send empty-message notice: %v\n", err)
			return
		}
		s.report(ctx, event, domain.AuditInfo, domain.EventEmptyMessageNotice, "")
		return
	}

	summary, err := s.summaries.Summarize(ctx, s.prompts.Build(disp.Text))
	if err != nil {
		fmt.Printf("[Summarizer] Generation failed for message %d: %v\n", event.MessageID, err)
		s.report(ctx, event, domain.AuditError, domain.EventGenerationFailed, err.Error())
		return
	}

	if err := s.deliver(ctx, event, disp.TargetMessageID, summary); err != nil {
		fmt.Printf("[Summarizer] Delivery failed for message %d: %v\n", event.MessageID, err)
		s.report(ctx, event, domain.AuditError, domain.EventDeliveryFailed, err.Error())
		return
	}

	switch disp.Kind {
	case domain.DispositionSummarizeReplyTarget:
		fmt.Printf("[Summarizer] TL;DR provided for replied message by %s in %s\n",
			event.SenderName, event.ChatTitle)
		s.report(ctx, event, domain.AuditInfo, domain.EventReplySummarized,
			fmt.Sprintf("TL;DR provided for replied message by %s", event.SenderName))
	case domain.DispositionSummarizeSelf:
		fmt.Printf("[Summarizer] Long message from %s in %s summarized\n",
			event.SenderName, event.ChatTitle)
		s.report(ctx, event, domain.AuditInfo, domain.EventLongMessageSummarized,
			fmt.Sprintf("Long message from %s summarized", event.SenderName))
	}
}

// deliver sends the summary anchored to the target message. If the
// anchored send fails the same text goes out once as a plain message;
// only a fallback failure propagates.
func (s *Summarizer) deliver(ctx context.Context, event *domain.ChatEvent, anchorID int, text string) error {
	err := s.messenger.SendReply(ctx, event.ChatID, anchorID, text)
	if err == nil {
		return nil
	}

	fmt.Printf("[Summarizer] Could not reply to message %d, sending as regular message: %v\n", anchorID, err)
	s.report(ctx, event, domain.AuditWarn, domain.EventAnchoredReplyFallback, err.Error())

	if err := s.messenger.SendText(ctx, event.ChatID, text); err != nil {
		return fmt.Errorf("fallback send: %w", err)
	}
	return nil
}

// report appends an audit record. Sink failures are logged locally and
// never affect the reply path.
func (s *Summarizer) report(ctx context.Context, event *domain.ChatEvent, level domain.AuditLevel, name, message string) {
	if s.audit == nil {
		return
	}
	record := domain.AuditEvent{
		Level:     level,
		Event:     name,
		Message:   message,
		UserID:    event.SenderID,
		ChatID:    event.ChatID,
		ChatTitle: event.ChatTitle,
	}
	if err := s.audit.Append(ctx, record); err != nil {
		fmt.Printf("[Summarizer] Failed to write audit record: %v\n", err)
	}
}
