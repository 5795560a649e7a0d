package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sealion-telegram-bot/internal/models"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions API,
// Sea-Lion included.
type OpenAIProvider struct {
	client openai.Client
}

// NewOpenAIProvider creates a provider for the API at baseURL
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIProvider{client: openai.NewClient(opts...)}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return models.ProviderOpenAI
}

// Complete sends the system and user messages as one chat completion.
func (p *OpenAIProvider) Complete(ctx context.Context, req *models.UpstreamRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Params.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserText),
		},
		Temperature: openai.Float(req.Params.Temperature),
		MaxTokens:   openai.Int(int64(req.Params.MaxTokens)),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &ProviderError{
				Provider:   models.ProviderOpenAI,
				StatusCode: apiErr.StatusCode,
				Message:    apiErr.Message,
			}
		}
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrMalformedResponse)
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty message content", ErrMalformedResponse)
	}

	return text, nil
}
