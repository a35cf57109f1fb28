package domain

import "time"

// AuditLevel is the severity of an audit record
type AuditLevel string

const (
	AuditInfo  AuditLevel = "INFO"
	AuditWarn  AuditLevel = "WARN"
	AuditError AuditLevel = "ERROR"
	AuditDebug AuditLevel = "DEBUG"
)

// Audit event names used by the pipeline
const (
	EventBotStarted            = "bot_started"
	EventLongMessageSummarized = "long_message_summarized"
	EventReplySummarized       = "reply_summarized"
	EventEmptyMessageNotice    = "empty_message_notice"
	EventGenerationFailed      = "generation_failed"
	EventDeliveryFailed        = "delivery_failed"
	EventAnchoredReplyFallback = "anchored_reply_fallback"
	EventHandlerPanic          = "handler_panic"
)

// AuditEvent is one immutable operational record. The timestamp is
// assigned by the store on insert; ID is zero until persisted.
type AuditEvent struct {
	ID        int64      `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Level     AuditLevel `json:"level"`
	Event     string     `json:"event"`
	Message   string     `json:"message,omitempty"`
	UserID    int64      `json:"user_id,omitempty"`
	ChatID    int64      `json:"chat_id,omitempty"`
	ChatTitle string     `json:"chat_title,omitempty"`
}

// AuditStats are the aggregate counts served by the read API
type AuditStats struct {
	TotalLogs   int            `json:"total_logs"`
	TodayLogs   int            `json:"today_logs"`
	UniqueUsers int            `json:"unique_users"`
	UniqueChats int            `json:"unique_chats"`
	EventCounts map[string]int `json:"event_counts"`
	LevelCounts map[string]int `json:"level_counts"`
}
