package usecase

import (
	"strings"
	"testing"

	"github.com/tldread/tldr-bot/internal/biz/domain"
)

func newTestClassifier() *ClassifierUsecase {
	return NewClassifierUsecase(1024, "tldread_bot")
}

func groupEvent(text string) *domain.ChatEvent {
	return &domain.ChatEvent{
		ChatID:     -100200,
		ChatKind:   domain.ChatKindGroup,
		ChatTitle:  "Test Group",
		SenderID:   42,
		SenderName: "alice",
		MessageID:  7,
		Text:       text,
	}
}

func TestClassifyIgnoresPrivateChats(t *testing.T) {
	uc := newTestClassifier()

	long := strings.Repeat("a", 2000)
	event := groupEvent(long)
	event.ChatKind = domain.ChatKindPrivate

	disp := uc.Classify(event)
	if disp.Kind != domain.DispositionIgnore {
		t.Errorf("expected ignore for private chat, got %v", disp.Kind)
	}

	// Even a mention-reply is ignored outside group chats
	event.Text = "@tldread_bot"
	event.ReplyTo = &domain.ReplyRef{MessageID: 3, Text: "some text"}
	if disp := uc.Classify(event); disp.Kind != domain.DispositionIgnore {
		t.Errorf("expected ignore for private mention-reply, got %v", disp.Kind)
	}
}

func TestClassifyEmptyMessage(t *testing.T) {
	uc := newTestClassifier()

	disp := uc.Classify(groupEvent(""))
	if disp.Kind != domain.DispositionNotifyEmpty {
		t.Errorf("expected empty-message notice, got %v", disp.Kind)
	}
}

func TestClassifyMentionReply(t *testing.T) {
	uc := newTestClassifier()

	event := groupEvent("@tldread_bot tl;dr please")
	event.ReplyTo = &domain.ReplyRef{MessageID: 99, Text: "a very long wall of text"}

	disp := uc.Classify(event)
	if disp.Kind != domain.DispositionSummarizeReplyTarget {
		t.Fatalf("expected reply-target summarization, got %v", disp.Kind)
	}
	if disp.Text != "a very long wall of text" {
		t.Errorf("unexpected target text: %q", disp.Text)
	}
	if disp.TargetMessageID != 99 {
		t.Errorf("expected anchor 99, got %d", disp.TargetMessageID)
	}
}

func TestClassifyMentionReplyCaptionFallback(t *testing.T) {
	uc := newTestClassifier()

	// Scenario: replying to a video post that only has a caption
	event := groupEvent("@tldread_bot")
	event.ReplyTo = &domain.ReplyRef{MessageID: 55, Caption: "long video description..."}

	disp := uc.Classify(event)
	if disp.Kind != domain.DispositionSummarizeReplyTarget {
		t.Fatalf("expected reply-target summarization, got %v", disp.Kind)
	}
	if disp.Text != "long video description..." {
		t.Errorf("expected caption as target text, got %q", disp.Text)
	}
	if disp.TargetMessageID != 55 {
		t.Errorf("expected anchor 55, got %d", disp.TargetMessageID)
	}
}

func TestClassifyMentionReplyTextWinsOverCaption(t *testing.T) {
	uc := newTestClassifier()

	event := groupEvent("@tldread_bot")
	event.ReplyTo = &domain.ReplyRef{MessageID: 55, Text: "the text", Caption: "the caption"}

	disp := uc.Classify(event)
	if disp.Text != "the text" {
		t.Errorf("text should take precedence over caption, got %q", disp.Text)
	}
}

func TestClassifyMentionReplyBeatsLengthRule(t *testing.T) {
	uc := newTestClassifier()

	// The outer message itself exceeds the threshold, but the
	// mention-reply takes priority.
	event := groupEvent("@tldread_bot " + strings.Repeat("x", 2000))
	event.ReplyTo = &domain.ReplyRef{MessageID: 12, Text: "target"}

	disp := uc.Classify(event)
	if disp.Kind != domain.DispositionSummarizeReplyTarget {
		t.Fatalf("reply target should win over length rule, got %v", disp.Kind)
	}
	if disp.TargetMessageID != 12 {
		t.Errorf("expected anchor 12, got %d", disp.TargetMessageID)
	}
}

func TestClassifyMentionReplyBlankTargetFallsThrough(t *testing.T) {
	uc := newTestClassifier()

	event := groupEvent("@tldread_bot " + strings.Repeat("x", 2000))
	event.ReplyTo = &domain.ReplyRef{MessageID: 12, Text: "   "}

	disp := uc.Classify(event)
	if disp.Kind != domain.DispositionSummarizeSelf {
		t.Errorf("blank reply target should fall through to length rule, got %v", disp.Kind)
	}
}

func TestClassifyLongMessage(t *testing.T) {
	uc := newTestClassifier()

	text := strings.Repeat("a", 1100)
	event := groupEvent(text)

	disp := uc.Classify(event)
	if disp.Kind != domain.DispositionSummarizeSelf {
		t.Fatalf("expected self summarization, got %v", disp.Kind)
	}
	if disp.Text != text {
		t.Errorf("disposition should carry the message's own text")
	}
	if disp.TargetMessageID != event.MessageID {
		t.Errorf("expected anchor %d, got %d", event.MessageID, disp.TargetMessageID)
	}
}

func TestClassifyThresholdIsExclusive(t *testing.T) {
	uc := newTestClassifier()

	if disp := uc.Classify(groupEvent(strings.Repeat("a", 1024))); disp.Kind != domain.DispositionIgnore {
		t.Errorf("message at exactly the threshold should be ignored, got %v", disp.Kind)
	}
	if disp := uc.Classify(groupEvent(strings.Repeat("a", 1025))); disp.Kind != domain.DispositionSummarizeSelf {
		t.Errorf("message one over the threshold should be summarized, got %v", disp.Kind)
	}
}

func TestClassifyThresholdCountsRunes(t *testing.T) {
	uc := newTestClassifier()

	// 1025 multibyte runes, well over 1024 bytes either way
	if disp := uc.Classify(groupEvent(strings.Repeat("я", 1025))); disp.Kind != domain.DispositionSummarizeSelf {
		t.Errorf("rune length should drive the threshold, got %v", disp.Kind)
	}
	if disp := uc.Classify(groupEvent(strings.Repeat("я", 1024))); disp.Kind != domain.DispositionIgnore {
		t.Errorf("1024 multibyte runes should be ignored, got %v", disp.Kind)
	}
}

func TestClassifyShortMessageIgnored(t *testing.T) {
	uc := newTestClassifier()

	disp := uc.Classify(groupEvent("hello there"))
	if disp.Kind != domain.DispositionIgnore {
		t.Errorf("expected ignore, got %v", disp.Kind)
	}
}

func TestClassifyReplyWithoutMentionIgnored(t *testing.T) {
	uc := newTestClassifier()

	event := groupEvent("interesting point")
	event.ReplyTo = &domain.ReplyRef{MessageID: 4, Text: "a long reply target"}

	disp := uc.Classify(event)
	if disp.Kind != domain.DispositionIgnore {
		t.Errorf("reply without mention should be ignored, got %v", disp.Kind)
	}
}

func TestMentionWordBoundary(t *testing.T) {
	uc := newTestClassifier()

	cases := []struct {
		text string
		want bool
	}{
		{"@tldread_bot", true},
		{"hey @tldread_bot, summarize", true},
		{"(@tldread_bot)", true},
		{"@tldread_bots", false},
		{"@tldread_bot2", false},
		{"@tldread_botx @tldread_bot", true},
		{"tldread_bot", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := uc.mentionsBot(tc.text); got != tc.want {
			t.Errorf("mentionsBot(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestSetBotUsernameStripsPrefix(t *testing.T) {
	uc := newTestClassifier()
	uc.SetBotUsername("@other_bot")
	if uc.BotUsername() != "other_bot" {
		t.Errorf("expected stripped handle, got %q", uc.BotUsername())
	}
	if !uc.mentionsBot("ping @other_bot") {
		t.Errorf("updated handle should be matched")
	}
}
