package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tuberelay/internal/adapters/pcloud"
	"tuberelay/internal/adapters/telegram"
	"tuberelay/internal/adapters/youtube"
	"tuberelay/internal/config"
	"tuberelay/internal/fsutil"
	"tuberelay/internal/service"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Configuration error: %v", err)
	}

	if err := fsutil.EnsureDir(cfg.TempDir); err != nil {
		logger.Fatalf("Failed to prepare temp directory: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("Received interrupt signal, shutting down...")
		cancel()
	}()

	store := pcloud.NewClient(cfg.PCloud.Email, cfg.PCloud.Password, logger)
	if err := store.Login(ctx); err != nil {
		logger.Fatalf("Failed to initialize pCloud: %v", err)
	}
	if _, err := store.EnsurePath(ctx, fsutil.PathSegments(cfg.PCloud.BaseFolder)); err != nil {
		logger.Fatalf("Failed to create pCloud folder structure: %v", err)
	}
	logger.Printf("Ensured pCloud folder exists: %s", cfg.PCloud.BaseFolder)

	resolver := youtube.NewResolver(logger)
	transcoder := youtube.NewTranscoder(resolver, cfg.TempDir, cfg.FFmpegPath, logger)

	bot, err := telegram.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to Telegram: %v", err)
	}

	orchestrator := service.NewOrchestrator(cfg, resolver, transcoder, store, bot, logger)
	bot.SetHandler(orchestrator)

	janitor := service.NewJanitor(cfg.TempDir, cfg.CleanupMaxAge(), logger)
	go janitor.Run(ctx)

	logger.Printf("Starting bot (temp dir: %s)", cfg.TempDir)
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Bot stopped: %v", err)
	}
}
