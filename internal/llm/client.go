package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sealion-telegram-bot/internal/models"
	"golang.org/x/time/rate"
)

const redacted = "[REDACTED]"

// Client sends composed requests to the configured provider.
// Every call is a single attempt; failures are never retried.
type Client struct {
	provider Provider
	throttle *rate.Limiter
	secrets  []string
	logger   zerolog.Logger
}

// NewClient creates an upstream client. rps caps outbound requests per
// second across all users; zero disables the cap. apiKey is scrubbed from
// every error detail.
func NewClient(provider Provider, apiKey string, rps float64, logger zerolog.Logger) *Client {
	var throttle *rate.Limiter
	if rps > 0 {
		throttle = rate.NewLimiter(rate.Limit(rps), 1)
	}

	var secrets []string
	if apiKey != "" {
		secrets = append(secrets, apiKey)
	}

	return &Client{
		provider: provider,
		throttle: throttle,
		secrets:  secrets,
		logger:   logger.With().Str("component", "llm").Str("provider", provider.Name()).Logger(),
	}
}

type completion struct {
	text string
	err  error
}

// Send performs one upstream call bounded by timeout.
// If the deadline passes first the call is abandoned and its result dropped.
func (c *Client) Send(ctx context.Context, req *models.UpstreamRequest, timeout time.Duration) models.UpstreamResult {
	startTime := time.Now()

	// Create context with timeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.throttle != nil {
		if err := c.throttle.Wait(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return c.fail(startTime, req, fmt.Errorf("waiting for provider throttle: %w", err))
			}
			return c.fail(startTime, req, &ProviderError{
				Provider:   c.provider.Name(),
				StatusCode: http.StatusTooManyRequests,
				Message:    "local throttle: " + err.Error(),
			})
		}
	}

	done := make(chan completion, 1)
	go func() {
		text, err := c.provider.Complete(ctx, req)
		done <- completion{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return c.fail(startTime, req, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return c.fail(startTime, req, res.err)
		}
		if strings.TrimSpace(res.text) == "" {
			return c.fail(startTime, req, fmt.Errorf("%w: empty completion", ErrMalformedResponse))
		}

		c.logger.Info().
			Str("model", req.Params.Model).
			Int("response_length", len([]rune(res.text))).
			Dur("duration", time.Since(startTime)).
			Msg("LLM response generated successfully")

		return models.Success(res.text)
	}
}

// fail classifies err into a result with a scrubbed detail
func (c *Client) fail(startTime time.Time, req *models.UpstreamRequest, err error) models.UpstreamResult {
	kind, errKind := classify(err)
	detail := c.redact(err.Error())

	c.logger.Warn().
		Str("model", req.Params.Model).
		Str("result", kind.String()).
		Str("error_kind", string(errKind)).
		Str("detail", detail).
		Dur("duration", time.Since(startTime)).
		Msg("LLM request failed")

	if kind == models.ResultTimeout {
		return models.Timeout()
	}
	return models.UpstreamFailure(errKind, detail)
}

func (c *Client) redact(s string) string {
	for _, secret := range c.secrets {
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return s
}
