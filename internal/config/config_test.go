package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealion-telegram-bot/internal/models"
)

var configEnvKeys = []string{
	"CONFIG_PATH", "TELEGRAM_TOKEN", "WEBHOOK_URL", "WEBHOOK_PATH", "PORT",
	"LLM_PROVIDER", "SEA_LION_API_KEY", "SEA_LION_BASE_URL", "SYSTEM_PROMPT",
	"SEA_LION_MODEL", "LLM_TEMPERATURE", "LLM_MAX_TOKENS", "REQUEST_TIMEOUT_SECONDS",
	"PROVIDER_RPS", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW_SECONDS",
	"SWEEP_SCHEDULE", "LOG_LEVEL", "ENVIRONMENT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const sampleYAML = `
telegram:
  webhook_url: https://bot.example.com/
sea_lion:
  model: aisingapore/Gemma-SEA-LION-v3-9B-IT
  base_url: https://api.sea-lion.ai/v1
system_prompt: |
  You are a CPF assistant.
rate_limit:
  requests: 5
  window_seconds: 30
request_timeout_seconds: 12
`

func TestLoad_FromYAMLAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", writeConfig(t, sampleYAML))
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("SEA_LION_API_KEY", "sk-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tg-token", cfg.TelegramToken)
	assert.Equal(t, "https://bot.example.com", cfg.WebhookURL)
	assert.Equal(t, "https://bot.example.com/webhook_telegram", cfg.WebhookEndpoint())
	assert.Equal(t, models.ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "aisingapore/Gemma-SEA-LION-v3-9B-IT", cfg.Model)
	assert.Equal(t, "You are a CPF assistant.\n", cfg.SystemPrompt)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow())
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "@every 1m", cfg.SweepSchedule)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", writeConfig(t, sampleYAML))
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("SEA_LION_API_KEY", "sk-secret")
	t.Setenv("SEA_LION_MODEL", "override-model")
	t.Setenv("RATE_LIMIT_REQUESTS", "3")
	t.Setenv("LLM_TEMPERATURE", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "override-model", cfg.Model)
	assert.Equal(t, 3, cfg.RateLimitRequests)
	assert.Equal(t, 0.0, cfg.Temperature)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("SEA_LION_API_KEY", "sk-secret")
	t.Setenv("SEA_LION_MODEL", "model")
	t.Setenv("SYSTEM_PROMPT", "be brief")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.WebhookEndpoint())
	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.Equal(t, 60, cfg.RateLimitWindowSecs)
	assert.Equal(t, 30, cfg.RequestTimeoutSecs)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", writeConfig(t, "sea_lion: [unterminated"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	valid := func() *models.BotConfig {
		return &models.BotConfig{
			TelegramToken:       "tg",
			APIKey:              "key",
			SystemPrompt:        "prompt",
			Model:               "model",
			Provider:            models.ProviderOpenAI,
			BaseURL:             defaultBaseURL,
			WebhookPath:         defaultWebhookPath,
			Port:                5000,
			Temperature:         0.7,
			MaxTokens:           1024,
			RequestTimeoutSecs:  30,
			RateLimitRequests:   10,
			RateLimitWindowSecs: 60,
			LogLevel:            "info",
		}
	}

	require.NoError(t, validate(valid()))

	tests := []struct {
		name    string
		mutate  func(*models.BotConfig)
		wantErr string
	}{
		{"missing token", func(c *models.BotConfig) { c.TelegramToken = "" }, "TELEGRAM_TOKEN"},
		{"missing api key", func(c *models.BotConfig) { c.APIKey = "" }, "SEA_LION_API_KEY"},
		{"blank prompt", func(c *models.BotConfig) { c.SystemPrompt = "  \n" }, "system_prompt"},
		{"missing model", func(c *models.BotConfig) { c.Model = "" }, "model"},
		{"unknown provider", func(c *models.BotConfig) { c.Provider = "claude" }, "LLM_PROVIDER"},
		{"bad base url", func(c *models.BotConfig) { c.BaseURL = "not a url" }, "SEA_LION_BASE_URL"},
		{"bad webhook path", func(c *models.BotConfig) { c.WebhookPath = "hook" }, "WEBHOOK_PATH"},
		{"zero limit", func(c *models.BotConfig) { c.RateLimitRequests = 0 }, "RATE_LIMIT_REQUESTS"},
		{"zero window", func(c *models.BotConfig) { c.RateLimitWindowSecs = 0 }, "RATE_LIMIT_WINDOW_SECONDS"},
		{"zero timeout", func(c *models.BotConfig) { c.RequestTimeoutSecs = 0 }, "REQUEST_TIMEOUT_SECONDS"},
		{"negative rps", func(c *models.BotConfig) { c.ProviderRPS = -1 }, "PROVIDER_RPS"},
		{"hot temperature", func(c *models.BotConfig) { c.Temperature = 3 }, "LLM_TEMPERATURE"},
		{"bad log level", func(c *models.BotConfig) { c.LogLevel = "trace" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_GeminiSkipsBaseURL(t *testing.T) {
	cfg := &models.BotConfig{
		TelegramToken:       "tg",
		APIKey:              "key",
		SystemPrompt:        "prompt",
		Model:               "gemini-2.0-flash",
		Provider:            models.ProviderGemini,
		WebhookPath:         defaultWebhookPath,
		Port:                5000,
		MaxTokens:           512,
		RequestTimeoutSecs:  30,
		RateLimitRequests:   10,
		RateLimitWindowSecs: 60,
		LogLevel:            "debug",
	}
	require.NoError(t, validate(cfg))
}
