package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tldread/tldr-bot/internal/biz/domain"
	"github.com/tldread/tldr-bot/internal/biz/repo"
)

// AuditMCPServer exposes the audit log to MCP clients as query tools
type AuditMCPServer struct {
	server *mcp.Server
	reader repo.AuditReader
}

// NewServer creates a new audit-log MCP server over the given reader
func NewServer(reader repo.AuditReader) *AuditMCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "auditlog-tools",
		Version: "v1.0.0",
	}, nil)

	s := &AuditMCPServer{
		server: server,
		reader: reader,
	}
	s.registerTools()
	return s
}

func (s *AuditMCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recent_logs",
		Description: "Get the most recent operational log records from the TL;DR bot, newest first.",
	}, s.handleRecentLogs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "log_stats",
		Description: "Get aggregate statistics over the operational log: totals, today's count, distinct users/chats, and per-event and per-level counts.",
	}, s.handleLogStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "logs_by_event",
		Description: "Get log records matching an exact event name, e.g. long_message_summarized or generation_failed.",
	}, s.handleLogsByEvent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "logs_by_user",
		Description: "Get log records for a specific sender id.",
	}, s.handleLogsByUser)
}

// Run starts the MCP server with stdio transport
func (s *AuditMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RecentLogsInput specifies how many records to retrieve
type RecentLogsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"description=Maximum number of records to retrieve (default 20)"`
}

// RecentLogsOutput contains the retrieved records
type RecentLogsOutput struct {
	Logs  []domain.AuditEvent `json:"logs"`
	Error string              `json:"error,omitempty"`
}

func (s *AuditMCPServer) handleRecentLogs(ctx context.Context, req *mcp.CallToolRequest, input RecentLogsInput) (*mcp.CallToolResult, RecentLogsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	logs, err := s.reader.Recent(ctx, limit)
	if err != nil {
		return nil, RecentLogsOutput{Error: err.Error()}, nil
	}
	return nil, RecentLogsOutput{Logs: logs}, nil
}

// LogStatsInput is empty - no input needed
type LogStatsInput struct{}

// LogStatsOutput contains the aggregate counts
type LogStatsOutput struct {
	Stats *domain.AuditStats `json:"stats,omitempty"`
	Error string             `json:"error,omitempty"`
}

func (s *AuditMCPServer) handleLogStats(ctx context.Context, req *mcp.CallToolRequest, input LogStatsInput) (*mcp.CallToolResult, LogStatsOutput, error) {
	_, stats, err := s.reader.All(ctx)
	if err != nil {
		return nil, LogStatsOutput{Error: err.Error()}, nil
	}
	return nil, LogStatsOutput{Stats: stats}, nil
}

// LogsByEventInput selects an event name
type LogsByEventInput struct {
	Event string `json:"event" jsonschema:"description=The exact event name to filter by"`
}

// LogsByEventOutput contains the matching records
type LogsByEventOutput struct {
	Logs  []domain.AuditEvent `json:"logs"`
	Error string              `json:"error,omitempty"`
}

func (s *AuditMCPServer) handleLogsByEvent(ctx context.Context, req *mcp.CallToolRequest, input LogsByEventInput) (*mcp.CallToolResult, LogsByEventOutput, error) {
	if input.Event == "" {
		return nil, LogsByEventOutput{Error: "event is required"}, nil
	}

	logs, err := s.reader.ByEvent(ctx, input.Event)
	if err != nil {
		return nil, LogsByEventOutput{Error: err.Error()}, nil
	}
	return nil, LogsByEventOutput{Logs: logs}, nil
}

// LogsByUserInput selects a sender id
type LogsByUserInput struct {
	UserID int64 `json:"user_id" jsonschema:"description=The sender id to filter by"`
}

// LogsByUserOutput contains the matching records
type LogsByUserOutput struct {
	Logs  []domain.AuditEvent `json:"logs"`
	Error string              `json:"error,omitempty"`
}

func (s *AuditMCPServer) handleLogsByUser(ctx context.Context, req *mcp.CallToolRequest, input LogsByUserInput) (*mcp.CallToolResult, LogsByUserOutput, error) {
	if input.UserID == 0 {
		return nil, LogsByUserOutput{Error: "user_id is required"}, nil
	}

	logs, err := s.reader.ByUser(ctx, input.UserID)
	if err != nil {
		return nil, LogsByUserOutput{Error: err.Error()}, nil
	}
	return nil, LogsByUserOutput{Logs: logs}, nil
}
