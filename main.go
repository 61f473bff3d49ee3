package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"communitybot/internal/bot"
	"communitybot/internal/config"
	"communitybot/internal/logging"
)

func main() {
	logger := logging.NewLogger(slog.LevelInfo)
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	// A bad configuration is reported but startup continues; the gateway
	// connection is where an unusable config finally fails.
	if err := cfg.Validate(); err != nil {
		logger.ErrorContext(ctx, "configuration incomplete, starting degraded", "error", err)
	}

	// Create bot
	b, err := bot.NewBot(cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "error creating bot", "error", err)
		os.Exit(1)
	}

	// Start bot
	if err := b.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "error starting bot", "error", err)
		os.Exit(1)
	}

	// Wait for interrupt signal to gracefully shutdown
	logger.InfoContext(ctx, "bot is now running, press CTRL-C to exit")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Cleanly close the bot
	logger.InfoContext(ctx, "shutting down bot")
	if err := b.Close(ctx); err != nil {
		logger.ErrorContext(ctx, "error during shutdown", "error", err)
	}
}
