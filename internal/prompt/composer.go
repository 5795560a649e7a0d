package prompt

import (
	"errors"
	"strings"

	"github.com/sealion-telegram-bot/internal/models"
)

// ErrInvalidInput is returned for empty or whitespace-only user text
var ErrInvalidInput = errors.New("invalid input: message has no text")

// Compose builds the upstream request for one user message.
// The user text is passed through untouched.
func Compose(systemPrompt, userText string, params models.ModelParams) (*models.UpstreamRequest, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, ErrInvalidInput
	}

	return &models.UpstreamRequest{
		SystemPrompt: systemPrompt,
		UserText:     userText,
		Params:       params,
	}, nil
}

// Composer binds the fixed system prompt and model parameters
type Composer struct {
	systemPrompt string
	params       models.ModelParams
}

// NewComposer creates a composer for the configured prompt and parameters
func NewComposer(systemPrompt string, params models.ModelParams) *Composer {
	return &Composer{
		systemPrompt: systemPrompt,
		params:       params,
	}
}

// Compose builds the upstream request for userText
func (c *Composer) Compose(userText string) (*models.UpstreamRequest, error) {
	return Compose(c.systemPrompt, userText, c.params)
}
