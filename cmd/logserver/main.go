package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tldread/tldr-bot/internal/api"
	"github.com/tldread/tldr-bot/internal/conf"
	"github.com/tldread/tldr-bot/internal/data"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()

	// The read side serves an existing log; a missing database means
	// the bot has never run here.
	store, err := data.OpenAuditStore(cfg.AuditLog.DBPath)
	if err != nil {
		log.Fatalf("Cannot open audit log: %v", err)
	}
	defer store.Close()

	srv := api.NewServer(store, cfg.AuditLog.APIPort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n[API] Shutting down server...")
		srv.Stop()
	}()

	fmt.Printf("[API] Dashboard available at: http://localhost:%d/dashboard\n", cfg.AuditLog.APIPort)
	fmt.Printf("[API] API endpoints available at: http://localhost:%d/api\n", cfg.AuditLog.APIPort)
	if err := srv.Start(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
