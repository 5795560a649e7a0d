package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sealion-telegram-bot/internal/models"
)

const (
	defaultConfigPath  = "config.yaml"
	defaultBaseURL     = "https://api.sea-lion.ai/v1"
	defaultWebhookPath = "/webhook_telegram"
)

// Load loads configuration from config.yaml and environment variables
// It first attempts to load from .env file, then the YAML file, then
// environment variables which override file values
func Load() (*models.BotConfig, error) {
	// Try to load .env file (optional, ignore error if not found)
	_ = godotenv.Load()

	file, err := readFile(getEnv("CONFIG_PATH", defaultConfigPath))
	if err != nil {
		return nil, err
	}

	return build(file)
}

// build merges file values, environment and defaults, then validates
func build(file *fileConfig) (*models.BotConfig, error) {
	config := &models.BotConfig{
		// Telegram settings
		TelegramToken: getEnv("TELEGRAM_TOKEN", ""),
		WebhookURL:    strings.TrimRight(getEnv("WEBHOOK_URL", file.Telegram.WebhookURL), "/"),
		WebhookPath:   getEnv("WEBHOOK_PATH", orDefault(file.Telegram.WebhookPath, defaultWebhookPath)),
		Port:          getEnvInt("PORT", 5000),

		// Upstream settings
		Provider:     strings.ToLower(getEnv("LLM_PROVIDER", orDefault(file.SeaLion.Provider, models.ProviderOpenAI))),
		APIKey:       getEnv("SEA_LION_API_KEY", ""),
		BaseURL:      getEnv("SEA_LION_BASE_URL", orDefault(file.SeaLion.BaseURL, defaultBaseURL)),
		SystemPrompt: getEnv("SYSTEM_PROMPT", file.SystemPrompt),
		Model:        getEnv("SEA_LION_MODEL", file.SeaLion.Model),
		Temperature:  getEnvFloat("LLM_TEMPERATURE", floatOrDefault(file.SeaLion.Temperature, 0.7)),
		MaxTokens:    getEnvInt("LLM_MAX_TOKENS", intOrDefault(file.SeaLion.MaxTokens, 1024)),

		RequestTimeoutSecs: getEnvInt("REQUEST_TIMEOUT_SECONDS", intOrDefault(file.RequestTimeoutSeconds, 30)),
		ProviderRPS:        getEnvFloat("PROVIDER_RPS", file.SeaLion.RequestsPerSecond),

		// Rate limits
		RateLimitRequests:   getEnvInt("RATE_LIMIT_REQUESTS", intOrDefault(file.RateLimit.Requests, 10)),
		RateLimitWindowSecs: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", intOrDefault(file.RateLimit.WindowSeconds, 60)),
		SweepSchedule:       getEnv("SWEEP_SCHEDULE", "@every 1m"),

		// App settings
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "production"),
	}

	// Validate configuration
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate checks if all required configuration values are set
func validate(cfg *models.BotConfig) error {
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	if cfg.APIKey == "" {
		return errors.New("SEA_LION_API_KEY is required")
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		return errors.New("system_prompt is required (config.yaml or SYSTEM_PROMPT)")
	}
	if cfg.Model == "" {
		return errors.New("sea_lion.model is required (config.yaml or SEA_LION_MODEL)")
	}

	switch cfg.Provider {
	case models.ProviderOpenAI:
		if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
			return fmt.Errorf("SEA_LION_BASE_URL is not a valid URL: %w", err)
		}
	case models.ProviderGemini:
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of: openai, gemini; got %s", cfg.Provider)
	}

	if cfg.WebhookURL != "" {
		if _, err := url.ParseRequestURI(cfg.WebhookURL); err != nil {
			return fmt.Errorf("WEBHOOK_URL is not a valid URL: %w", err)
		}
	}
	if !strings.HasPrefix(cfg.WebhookPath, "/") {
		return fmt.Errorf("WEBHOOK_PATH must start with /, got %s", cfg.WebhookPath)
	}

	// Validate positive values
	if cfg.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindowSecs <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive, got %d", cfg.RateLimitWindowSecs)
	}
	if cfg.RequestTimeoutSecs <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", cfg.RequestTimeoutSecs)
	}
	if cfg.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %g", cfg.Temperature)
	}
	if cfg.ProviderRPS < 0 {
		return fmt.Errorf("PROVIDER_RPS must not be negative, got %g", cfg.ProviderRPS)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %s", cfg.LogLevel)
	}

	return nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves environment variable as integer or returns default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvFloat retrieves environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func orDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func intOrDefault(value, defaultValue int) int {
	if value == 0 {
		return defaultValue
	}
	return value
}

func floatOrDefault(value *float64, defaultValue float64) float64 {
	if value == nil {
		return defaultValue
	}
	return *value
}
