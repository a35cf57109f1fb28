package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tldread/tldr-bot/internal/biz/repo"
	"github.com/tldread/tldr-bot/internal/biz/usecase"
	"github.com/tldread/tldr-bot/internal/conf"
	"github.com/tldread/tldr-bot/internal/data"
	"github.com/tldread/tldr-bot/internal/server"
	"github.com/tldread/tldr-bot/internal/service"
	"github.com/tldread/tldr-bot/telegram"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize clients
	tgClient := telegram.NewClient(cfg.Telegram.BotToken, cfg.Debug)

	// Initialize repository layer. The audit sink is observability: if
	// the store cannot be opened the bot still runs, without it.
	generator := data.NewGeminiRepo(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
	messenger := data.NewTelegramRepo(tgClient)

	var audit repo.AuditRepo
	auditStore, err := data.NewAuditStore(cfg.AuditLog.DBPath)
	if err != nil {
		fmt.Printf("[Bot] Audit log disabled: %v\n", err)
	} else {
		audit = auditStore
		defer auditStore.Close()
		fmt.Printf("[Bot] Audit log: %s\n", cfg.AuditLog.DBPath)
	}

	// Initialize usecase layer
	classifier := usecase.NewClassifierUsecase(cfg.Summarizer.MaxMessageLength, cfg.Telegram.BotUsername)
	prompts := usecase.NewPromptBuilder(cfg.Summarizer.PromptTemplate)
	summaries := usecase.NewSummarizeUsecase(generator, cfg.Summarizer.GenerationTimeout)

	// Initialize service and server
	summarizer := service.NewSummarizer(classifier, prompts, summaries, messenger, audit)
	srv := server.NewBotServer(tgClient, summarizer, classifier, audit)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		fmt.Printf("\n[Bot] Received %s, stopping gracefully...\n", sig)
		srv.Stop()
	}()

	fmt.Println("[Bot] TL;DR bot is running!")
	if err := srv.Start(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
