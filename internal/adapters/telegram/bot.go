package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tuberelay/internal/config"
	"tuberelay/internal/core/domain"
	"tuberelay/internal/fsutil"
)

const (
	welcomeText = "Welcome! Send me a YouTube link and I'll convert it to MP3.\n" +
		"The file will be uploaded to pCloud."

	helpText = "Just send me a YouTube link and I'll convert it to MP3.\n" +
		"Commands:\n" +
		"/start - Start the bot\n" +
		"/help - Show this help message\n" +
		"/cleanup - Clean up temporary files"

	unauthorizedText = "Sorry, you are not authorized to use this bot."
)

// Handler processes one URL submission through to its terminal outcome.
type Handler interface {
	HandleRequest(ctx context.Context, req domain.Request) domain.Outcome
}

// Bot is the chat front end. It registers the command handlers, treats
// free-text messages as URL submissions, and implements ports.Messenger so
// the pipeline can send and edit status messages.
type Bot struct {
	api     *tgbotapi.BotAPI
	cfg     *config.Config
	handler Handler
	logger  *log.Logger
}

// New connects to the Telegram API with the configured token.
func New(cfg *config.Config, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, cfg: cfg, logger: logger}, nil
}

// SetHandler sets the pipeline handler for URL submissions.
func (b *Bot) SetHandler(handler Handler) {
	b.handler = handler
}

// Send posts a new message and returns its message ID.
func (b *Bot) Send(chatID int64, text string) (int, error) {
	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// Edit replaces the text of a previously sent message.
func (b *Bot) Edit(chatID int64, messageID int, text string) error {
	_, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

// Run polls for updates until the context is cancelled. Each URL submission
// is handled in its own goroutine so concurrent requests proceed
// independently.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Printf("bot authorized as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.dispatch(ctx, update.Message)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(msg)
		case "help":
			b.handleHelp(msg)
		case "cleanup":
			b.handleCleanup(msg)
		}
		return
	}

	req := domain.Request{ChatID: msg.Chat.ID, UserID: msg.From.ID, Text: msg.Text}
	go b.handler.HandleRequest(ctx, req)
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	if !b.cfg.IsAllowed(msg.From.ID) {
		b.reply(msg.Chat.ID, unauthorizedText)
		return
	}
	b.reply(msg.Chat.ID, welcomeText)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	if !b.cfg.IsAllowed(msg.From.ID) {
		return
	}
	b.reply(msg.Chat.ID, helpText)
}

func (b *Bot) handleCleanup(msg *tgbotapi.Message) {
	if !b.cfg.IsAllowed(msg.From.ID) {
		return
	}
	removed, err := fsutil.CleanupOldFiles(b.cfg.TempDir, b.cfg.CleanupMaxAge())
	if err != nil {
		b.logger.Printf("cleanup command failed: %v", err)
	} else if removed > 0 {
		b.logger.Printf("cleanup command removed %d file(s)", removed)
	}
	b.reply(msg.Chat.ID, "Cleanup completed!")
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.Send(chatID, text); err != nil {
		b.logger.Printf("failed to reply: %v", err)
	}
}
