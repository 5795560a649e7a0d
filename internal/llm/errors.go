package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sealion-telegram-bot/internal/models"
)

var (
	// ErrMalformedResponse is returned when the provider answered but the
	// answer carries no usable text
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnknownProvider is returned for an unsupported LLM_PROVIDER value
	ErrUnknownProvider = errors.New("unknown llm provider")
)

// ProviderError is returned when a provider responds with a non-2xx status.
// Message must never include API keys or the request body.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s request failed: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

// classify maps a provider error to its result kind
func classify(err error) (models.ResultKind, models.ErrorKind) {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.ResultTimeout, ""
	}
	if errors.Is(err, ErrMalformedResponse) {
		return models.ResultUpstreamError, models.ErrorMalformedResponse
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return models.ResultUpstreamError, models.ErrorMalformedResponse
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		switch providerErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return models.ResultUpstreamError, models.ErrorAuthFailure
		case http.StatusTooManyRequests:
			return models.ResultUpstreamError, models.ErrorRateLimitedByProvider
		}
	}

	return models.ResultUpstreamError, models.ErrorServerError
}
