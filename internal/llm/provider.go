package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sealion-telegram-bot/internal/models"
)

// Provider performs one completion against a concrete LLM API
type Provider interface {
	// Complete returns the model's answer to req.
	Complete(ctx context.Context, req *models.UpstreamRequest) (string, error)
	// Name returns the provider identifier (e.g., "openai").
	Name() string
}

// NewProvider creates the provider selected in the configuration
func NewProvider(cfg *models.BotConfig, logger zerolog.Logger) (Provider, error) {
	switch cfg.Provider {
	case models.ProviderOpenAI, "":
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL), nil
	case models.ProviderGemini:
		return NewGeminiProvider(cfg.APIKey, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
