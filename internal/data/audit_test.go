package data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tldread/tldr-bot/internal/biz/domain"
)

func newTestStore(t *testing.T) *AuditStore {
	t.Helper()
	store, err := NewAuditStore(filepath.Join(t.TempDir(), "logs.sqlite"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedRecords(t *testing.T, store *AuditStore) {
	t.Helper()
	ctx := context.Background()
	records := []domain.AuditEvent{
		{Level: domain.AuditInfo, Event: domain.EventBotStarted, Message: "@tldread_bot"},
		{Level: domain.AuditInfo, Event: domain.EventLongMessageSummarized, UserID: 42, ChatID: -1, ChatTitle: "Group A"},
		{Level: domain.AuditInfo, Event: domain.EventLongMessageSummarized, UserID: 43, ChatID: -2, ChatTitle: "Group B"},
		{Level: domain.AuditError, Event: domain.EventGenerationFailed, Message: "transport error", UserID: 42, ChatID: -1, ChatTitle: "Group A"},
	}
	for _, rec := range records {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
	}
}

func TestAppendAndAll(t *testing.T) {
	store := newTestStore(t)
	seedRecords(t, store)

	logs, stats, err := store.All(context.Background())
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	if len(logs) != 4 {
		t.Fatalf("expected 4 records, got %d", len(logs))
	}
	// Newest first
	if logs[0].Event != domain.EventGenerationFailed {
		t.Errorf("expected newest record first, got %s", logs[0].Event)
	}
	if logs[0].Timestamp.IsZero() {
		t.Errorf("store should assign timestamps")
	}
	if logs[0].ID == 0 {
		t.Errorf("records should carry their row id")
	}

	if stats.TotalLogs != 4 {
		t.Errorf("expected total 4, got %d", stats.TotalLogs)
	}
	if stats.TodayLogs != 4 {
		t.Errorf("expected 4 records today, got %d", stats.TodayLogs)
	}
	if stats.UniqueUsers != 2 {
		t.Errorf("expected 2 unique users, got %d", stats.UniqueUsers)
	}
	if stats.UniqueChats != 2 {
		t.Errorf("expected 2 unique chats, got %d", stats.UniqueChats)
	}
	if stats.EventCounts[domain.EventLongMessageSummarized] != 2 {
		t.Errorf("unexpected event counts: %v", stats.EventCounts)
	}
	if stats.LevelCounts["INFO"] != 3 || stats.LevelCounts["ERROR"] != 1 {
		t.Errorf("unexpected level counts: %v", stats.LevelCounts)
	}
}

func TestNullableFieldsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, domain.AuditEvent{Level: domain.AuditDebug, Event: "heartbeat"}); err != nil {
		t.Fatalf("failed to append: %v", err)
	}

	logs, _, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	rec := logs[0]
	if rec.UserID != 0 || rec.ChatID != 0 || rec.Message != "" || rec.ChatTitle != "" {
		t.Errorf("optional fields should round-trip as zero values: %+v", rec)
	}
}

func TestRecent(t *testing.T) {
	store := newTestStore(t)
	seedRecords(t, store)

	logs, err := store.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(logs))
	}
	if logs[0].Event != domain.EventGenerationFailed {
		t.Errorf("expected newest record first, got %s", logs[0].Event)
	}
}

func TestByEvent(t *testing.T) {
	store := newTestStore(t)
	seedRecords(t, store)

	logs, err := store.ByEvent(context.Background(), domain.EventLongMessageSummarized)
	if err != nil {
		t.Fatalf("ByEvent failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(logs))
	}
	for _, rec := range logs {
		if rec.Event != domain.EventLongMessageSummarized {
			t.Errorf("unexpected event: %s", rec.Event)
		}
	}
}

func TestByUser(t *testing.T) {
	store := newTestStore(t)
	seedRecords(t, store)

	logs, err := store.ByUser(context.Background(), 42)
	if err != nil {
		t.Fatalf("ByUser failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 records for user 42, got %d", len(logs))
	}
	for _, rec := range logs {
		if rec.UserID != 42 {
			t.Errorf("unexpected user: %d", rec.UserID)
		}
	}
}

func TestOpenAuditStoreMissingFile(t *testing.T) {
	if _, err := OpenAuditStore(filepath.Join(t.TempDir(), "missing.sqlite")); err == nil {
		t.Fatalf("expected error for missing database file")
	}
}

func TestConcurrentAppends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func(n int) {
			done <- store.Append(ctx, domain.AuditEvent{
				Level:  domain.AuditInfo,
				Event:  domain.EventLongMessageSummarized,
				UserID: int64(n + 1),
			})
		}(i)
	}
	for i := 0; i < 10; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent append failed: %v", err)
		}
	}

	logs, _, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(logs) != 10 {
		t.Errorf("expected 10 records, got %d", len(logs))
	}
}

func TestUnparseableTimestampStillScans(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO operations_log (timestamp, level, event)
		VALUES ('not-a-timestamp', 'INFO', 'bot_started')
	`)
	if err != nil {
		t.Fatalf("failed to insert record: %v", err)
	}

	logs, _, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(logs))
	}
	if logs[0].Event != "bot_started" {
		t.Errorf("unexpected event: %q", logs[0].Event)
	}
	if !logs[0].Timestamp.IsZero() {
		t.Errorf("expected zero timestamp for unparseable value, got %v", logs[0].Timestamp)
	}
}
