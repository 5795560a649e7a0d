package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/sealion-telegram-bot/internal/models"
)

// Relay produces the reply for one inbound message
type Relay interface {
	Handle(ctx context.Context, msg models.InboundMessage) string
}

// Bot represents the Telegram bot
type Bot struct {
	api    *tgbotapi.BotAPI
	config *models.BotConfig
	relay  Relay
	logger zerolog.Logger
	wg     sync.WaitGroup // Tracks active handlers for graceful shutdown
}

// New creates a new bot instance
func New(config *models.BotConfig, relay Relay, logger zerolog.Logger) (*Bot, error) {
	// Create Telegram bot API client
	api, err := tgbotapi.NewBotAPI(config.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return NewWithAPI(api, config, relay, logger), nil
}

// NewWithAPI creates a bot around an already authorized API client
func NewWithAPI(api *tgbotapi.BotAPI, config *models.BotConfig, relay Relay, logger zerolog.Logger) *Bot {
	// Set debug mode based on log level
	api.Debug = config.LogLevel == "debug"

	logger.Info().
		Str("username", api.Self.UserName).
		Int64("id", api.Self.ID).
		Msg("Telegram bot authorized")

	return &Bot{
		api:    api,
		config: config,
		relay:  relay,
		logger: logger.With().Str("component", "bot").Logger(),
	}
}

// RegisterWebhook replaces any existing webhook with the configured one.
// Pending updates are dropped so the bot starts from a clean queue.
func (b *Bot) RegisterWebhook() error {
	endpoint := b.config.WebhookEndpoint()
	if endpoint == "" {
		return fmt.Errorf("webhook url is not configured")
	}

	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		// Not fatal: setWebhook overwrites the old registration anyway.
		b.logger.Error().Err(err).Msg("Failed to remove previous webhook")
	} else {
		b.logger.Info().Msg("Previous webhook removed")
	}

	wh, err := tgbotapi.NewWebhook(endpoint)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}

	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	b.logger.Info().Str("url", endpoint).Msg("Webhook set successfully")
	return nil
}

// WebhookInfo returns Telegram's view of the current webhook
func (b *Bot) WebhookInfo() (tgbotapi.WebhookInfo, error) {
	return b.api.GetWebhookInfo()
}

// Start receives updates by long polling until ctx is cancelled.
// Used when no webhook URL is configured.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting bot in polling mode...")

	// getUpdates is refused while a webhook is registered
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to remove webhook before polling: %w", err)
	}

	// Configure update settings
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	// Get updates channel
	updates := b.api.GetUpdatesChan(u)

	// In-flight handlers finish on their own upstream timeout after shutdown
	handlerCtx := context.WithoutCancel(ctx)

	b.logger.Info().Msg("Bot started, waiting for messages...")

	// Process updates
	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Shutting down bot...")
			b.api.StopReceivingUpdates()

			// Wait for all active handlers to complete
			b.logger.Info().Msg("Waiting for active handlers to complete...")
			b.wg.Wait()
			b.logger.Info().Msg("All handlers completed")

			return nil

		case update := <-updates:
			// Track this handler in WaitGroup
			b.wg.Add(1)
			// Process update in a goroutine to not block
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(handlerCtx, upd)
			}(update)
		}
	}
}

// GetUsername returns bot username
func (b *Bot) GetUsername() string {
	return b.api.Self.UserName
}
