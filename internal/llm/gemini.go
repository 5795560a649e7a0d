package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/sealion-telegram-bot/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GeminiProvider represents a Gemini LLM client
type GeminiProvider struct {
	apiKey      string
	logger      zerolog.Logger
	genaiClient *genai.Client
	mu          sync.Mutex
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(apiKey string, logger zerolog.Logger) *GeminiProvider {
	return &GeminiProvider{
		apiKey:      apiKey,
		logger:      logger.With().Str("component", "gemini").Logger(),
		genaiClient: nil, // Will be created on first use
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return models.ProviderGemini
}

// getClient returns or creates a genai client (thread-safe)
func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.genaiClient != nil {
		return p.genaiClient, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	p.genaiClient = client
	p.logger.Info().Msg("Gemini client created and cached")
	return p.genaiClient, nil
}

// Close closes the genai client and releases resources
func (p *GeminiProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.genaiClient != nil {
		err := p.genaiClient.Close()
		p.genaiClient = nil
		if err != nil {
			p.logger.Error().Err(err).Msg("Failed to close Gemini client")
			return err
		}
		p.logger.Info().Msg("Gemini client closed")
	}
	return nil
}

// Complete makes actual API call to Gemini
func (p *GeminiProvider) Complete(ctx context.Context, req *models.UpstreamRequest) (string, error) {
	// Get or create Gemini client (reused across requests)
	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(req.Params.Model)
	model.SetTemperature(float32(req.Params.Temperature))
	model.SetMaxOutputTokens(int32(req.Params.MaxTokens))
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.SystemPrompt)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserText))
	if err != nil {
		return "", fromGeminiError(err)
	}

	// Extract text from response
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no response candidates", ErrMalformedResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content parts in response", ErrMalformedResponse)
	}

	// Extract text from all parts
	var responseText strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	return responseText.String(), nil
}

// fromGeminiError converts genai, REST and gRPC failures into ProviderError
func fromGeminiError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   models.ProviderGemini,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
		}
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", context.DeadlineExceeded, st.Message())
	case codes.Canceled:
		return fmt.Errorf("%w: %s", context.Canceled, st.Message())
	}

	return &ProviderError{
		Provider:   models.ProviderGemini,
		StatusCode: httpStatusFromCode(st.Code()),
		Message:    st.Message(),
	}
}

// httpStatusFromCode maps gRPC codes onto the HTTP statuses used for classification
func httpStatusFromCode(code codes.Code) int {
	switch code {
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.InvalidArgument, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
