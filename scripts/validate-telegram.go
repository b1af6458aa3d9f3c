package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	"github.com/nichepilot/nichepilot-go/internal/config"
)

// Standalone check that the configured Telegram bot token works before
// deploying. Run with: go run scripts/validate-telegram.go
func main() {
	fmt.Println("Validating Telegram bot configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.Telegram.BotToken == "" {
		fmt.Println("TELEGRAM_BOT_TOKEN is not configured")
		os.Exit(1)
	}
	fmt.Printf("Bot token is configured (length: %d)\n", len(cfg.Telegram.BotToken))

	if cfg.Telegram.ChatID == "" {
		fmt.Println("Warning: TELEGRAM_CHAT_ID is not configured, notifications are disabled")
	}

	b, err := bot.New(cfg.Telegram.BotToken)
	if err != nil {
		fmt.Printf("Failed to create Telegram bot: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Testing bot API connection...")
	botInfo, err := b.GetMe(context.Background())
	if err != nil {
		fmt.Printf("Failed to get bot info: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Bot API connection works: @%s (%s)\n", botInfo.Username, botInfo.FirstName)
}
