package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tldread/tldr-bot/internal/biz/domain"

	_ "modernc.org/sqlite"
)

// AuditStore is the sqlite-backed audit log. It implements both the
// append side (repo.AuditRepo) and the read side (repo.AuditReader).
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore opens (or creates) the audit log database
func NewAuditStore(dbPath string) (*AuditStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	// WAL plus a busy timeout so concurrent appenders don't stall each
	// other on unrelated events.
	dsn := "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS operations_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			level TEXT NOT NULL,
			event TEXT NOT NULL,
			message TEXT,
			user_id INTEGER,
			chat_id INTEGER,
			chat_title TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_operations_log_event ON operations_log(event)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &AuditStore{db: db}, nil
}

// OpenAuditStore opens an existing audit log database for reading and
// fails if the file does not exist.
func OpenAuditStore(dbPath string) (*AuditStore, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database file %q not found: %w", dbPath, err)
	}
	return NewAuditStore(dbPath)
}

// Append persists one audit record. The store assigns the timestamp;
// zero-valued sender/chat fields are stored as NULL.
func (s *AuditStore) Append(ctx context.Context, event domain.AuditEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operations_log (level, event, message, user_id, chat_id, chat_title)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		string(event.Level),
		event.Event,
		nullString(event.Message),
		nullInt64(event.UserID),
		nullInt64(event.ChatID),
		nullString(event.ChatTitle),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

const selectColumns = `id, timestamp, level, event, message, user_id, chat_id, chat_title`

// All returns every record, newest first, plus aggregate stats
func (s *AuditStore) All(ctx context.Context) ([]domain.AuditEvent, *domain.AuditStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM operations_log
		ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, nil, err
	}

	stats, err := s.stats(ctx)
	if err != nil {
		return nil, nil, err
	}
	return events, stats, nil
}

// Recent returns the most recent limit records, newest first
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM operations_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent records: %w", err)
	}
	return scanEvents(rows)
}

// ByEvent returns records with an exact event-name match, newest first
func (s *AuditStore) ByEvent(ctx context.Context, event string) ([]domain.AuditEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM operations_log
		WHERE event = ?
		ORDER BY timestamp DESC, id DESC
	`, event)
	if err != nil {
		return nil, fmt.Errorf("failed to query records by event: %w", err)
	}
	return scanEvents(rows)
}

// ByUser returns records with an exact sender-id match, newest first
func (s *AuditStore) ByUser(ctx context.Context, userID int64) ([]domain.AuditEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM operations_log
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records by user: %w", err)
	}
	return scanEvents(rows)
}

// Close closes the database connection
func (s *AuditStore) Close() error {
	return s.db.Close()
}

func (s *AuditStore) stats(ctx context.Context) (*domain.AuditStats, error) {
	stats := &domain.AuditStats{
		EventCounts: make(map[string]int),
		LevelCounts: make(map[string]int),
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN date(timestamp) = date('now') THEN 1 END),
			COUNT(DISTINCT user_id),
			COUNT(DISTINCT chat_id)
		FROM operations_log
	`)
	if err := row.Scan(&stats.TotalLogs, &stats.TodayLogs, &stats.UniqueUsers, &stats.UniqueChats); err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT event, COUNT(*) FROM operations_log GROUP BY event`)
	if err != nil {
		return nil, fmt.Errorf("failed to query event counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var event string
		var count int
		if err := rows.Scan(&event, &count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		stats.EventCounts[event] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event counts: %w", err)
	}

	levelRows, err := s.db.QueryContext(ctx, `SELECT level, COUNT(*) FROM operations_log GROUP BY level`)
	if err != nil {
		return nil, fmt.Errorf("failed to query level counts: %w", err)
	}
	defer levelRows.Close()
	for levelRows.Next() {
		var level string
		var count int
		if err := levelRows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan level count: %w", err)
		}
		stats.LevelCounts[level] = count
	}
	if err := levelRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read level counts: %w", err)
	}

	return stats, nil
}

func scanEvents(rows *sql.Rows) ([]domain.AuditEvent, error) {
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var (
			event     domain.AuditEvent
			ts        string
			level     string
			message   sql.NullString
			userID    sql.NullInt64
			chatID    sql.NullInt64
			chatTitle sql.NullString
		)
		if err := rows.Scan(&event.ID, &ts, &level, &event.Event, &message, &userID, &chatID, &chatTitle); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		if parsed, err := time.Parse("2006-01-02 15:04:05", ts); err == nil {
			event.Timestamp = parsed.UTC()
		} else {
			fmt.Printf("[AuditStore] Unparseable timestamp %q on record %d: %v\n", ts, event.ID, err)
		}
		event.Level = domain.AuditLevel(level)
		event.Message = message.String
		event.UserID = userID.Int64
		event.ChatID = chatID.Int64
		event.ChatTitle = chatTitle.String
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit records: %w", err)
	}
	return events, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt64(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
