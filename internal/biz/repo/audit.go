package repo

import (
	"context"

	"github.com/tldread/tldr-bot/internal/biz/domain"
)

// AuditRepo is the append side of the audit log. Appends are atomic per
// call and must not block unrelated writers.
type AuditRepo interface {
	// Append persists one audit record; the store assigns the timestamp
	Append(ctx context.Context, event domain.AuditEvent) error

	// Close closes the underlying store
	Close() error
}

// AuditReader is the read side of the audit log, serving the reporting
// API and the MCP tools. All listings are newest first.
type AuditReader interface {
	// All returns every record plus aggregate stats
	All(ctx context.Context) ([]domain.AuditEvent, *domain.AuditStats, error)

	// Recent returns the most recent limit records
	Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error)

	// ByEvent returns records matching the event name exactly
	ByEvent(ctx context.Context, event string) ([]domain.AuditEvent, error)

	// ByUser returns records matching the sender id exactly
	ByUser(ctx context.Context, userID int64) ([]domain.AuditEvent, error)

	// Close closes the underlying store
	Close() error
}
