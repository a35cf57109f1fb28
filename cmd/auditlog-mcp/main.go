package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tldread/tldr-bot/internal/conf"
	"github.com/tldread/tldr-bot/internal/data"
	"github.com/tldread/tldr-bot/mcpserver"
)

// auditlog-mcp serves the audit log to MCP clients over stdio, so an
// agent can query the bot's operational history with tools instead of
// raw SQL.
func main() {
	_ = godotenv.Load()

	cfg := conf.LoadFromEnv()

	store, err := data.OpenAuditStore(cfg.AuditLog.DBPath)
	if err != nil {
		log.Fatalf("Cannot open audit log: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mcpserver.NewServer(store)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
