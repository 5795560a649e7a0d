package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sealion-telegram-bot/internal/bot"
	"github.com/sealion-telegram-bot/internal/config"
	"github.com/sealion-telegram-bot/internal/llm"
	"github.com/sealion-telegram-bot/internal/prompt"
	"github.com/sealion-telegram-bot/internal/ratelimit"
	"github.com/sealion-telegram-bot/internal/relay"
	"github.com/sealion-telegram-bot/internal/scheduler"
	"github.com/sealion-telegram-bot/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.Environment)
	logger.Info().
		Str("environment", cfg.Environment).
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Int("rate_limit", cfg.RateLimitRequests).
		Int("rate_window_secs", cfg.RateLimitWindowSecs).
		Int("timeout_secs", cfg.RequestTimeoutSecs).
		Bool("webhook", cfg.WebhookURL != "").
		Msg("Starting Sea-Lion Telegram Bot")
	logger.Info().Msg("Using System Prompt set")

	// Create context that listens for termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize rate limiter
	limiter := ratelimit.NewLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow(), logger)

	sched, err := scheduler.NewScheduler(cfg.SweepSchedule, limiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	go func() {
		if err := sched.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("Scheduler stopped with error")
		}
	}()

	// Initialize LLM client
	logger.Info().Str("provider", cfg.Provider).Msg("Initializing LLM client...")
	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create LLM provider")
	}
	if closer, ok := provider.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close LLM client")
			}
		}()
	}
	llmClient := llm.NewClient(provider, cfg.APIKey, cfg.ProviderRPS, logger)

	messageRelay := relay.New(
		limiter,
		prompt.NewComposer(cfg.SystemPrompt, cfg.ModelParams()),
		llmClient,
		cfg.RequestTimeout(),
		logger,
	)

	// Initialize bot
	logger.Info().Msg("Initializing Telegram bot...")
	telegramBot, err := bot.New(cfg, messageRelay, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create bot")
	}

	logger.Info().
		Str("username", telegramBot.GetUsername()).
		Msg("Bot initialized successfully")

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start receiving updates in a goroutine
	var srv *server.Server
	botErrChan := make(chan error, 1)
	pollDone := make(chan struct{})

	if cfg.WebhookURL != "" {
		close(pollDone)

		if err := telegramBot.RegisterWebhook(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to register webhook")
		}

		srv = server.New(cfg.Port, cfg.WebhookPath, telegramBot, cfg.RequestTimeout()+15*time.Second, logger)
		go func() {
			if err := srv.Start(); err != nil {
				botErrChan <- err
			}
		}()
	} else {
		logger.Warn().Msg("WEBHOOK_URL not set, falling back to long polling")
		go func() {
			defer close(pollDone)
			if err := telegramBot.Start(ctx); err != nil {
				botErrChan <- err
			}
		}()
	}

	logger.Info().Msg("Bot is running. Press Ctrl+C to stop.")

	// Wait for termination signal or bot error
	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received termination signal")
	case err := <-botErrChan:
		logger.Error().Err(err).Msg("Bot stopped with error")
	}

	// Graceful shutdown
	logger.Info().Msg("Initiating graceful shutdown...")
	cancel()

	// Give in-flight messages time to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.RequestTimeout()+5*time.Second)
	defer shutdownCancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Shutdown timeout exceeded, some requests may be lost")
		}
	}

	// Wait for the polling loop to drain its handlers
	select {
	case <-shutdownCtx.Done():
		logger.Warn().Msg("Shutdown timeout exceeded, some requests may be lost")
	case <-pollDone:
		logger.Info().Msg("Graceful shutdown completed")
	}

	logger.Info().Msg("Bot stopped")
}

// setupLogger configures and returns a zerolog logger
func setupLogger(level, environment string) zerolog.Logger {
	// Parse log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// Configure output format
	var logger zerolog.Logger
	if environment == "development" {
		// Pretty console output for development
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Caller().Logger()
	} else {
		// JSON output for production
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	return logger
}
