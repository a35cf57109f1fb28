package domain

// ChatKind is the kind of chat a message arrived in
type ChatKind string

const (
	ChatKindPrivate    ChatKind = "private"
	ChatKindGroup      ChatKind = "group"
	ChatKindSupergroup ChatKind = "supergroup"
	ChatKindChannel    ChatKind = "channel"
)

// IsGroupLike reports whether the chat is a group or supergroup
func (k ChatKind) IsGroupLike() bool {
	return k == ChatKindGroup || k == ChatKindSupergroup
}

// ReplyRef is the replied-to message carried inside a ChatEvent.
// Text takes precedence over Caption when extracting summarizable text.
type ReplyRef struct {
	MessageID int
	Text      string
	Caption   string
}

// BodyText returns the summarizable text of the replied-to message,
// preferring text over caption.
func (r *ReplyRef) BodyText() string {
	if r.Text != "" {
		return r.Text
	}
	return r.Caption
}

// ChatEvent represents one inbound text message.
// Immutable once received; it lives for the duration of handling.
type ChatEvent struct {
	ChatID     int64
	ChatKind   ChatKind
	ChatTitle  string
	SenderID   int64
	SenderName string
	MessageID  int
	Text       string
	ReplyTo    *ReplyRef
}
