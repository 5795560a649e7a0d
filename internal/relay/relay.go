package relay

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sealion-telegram-bot/internal/models"
	"github.com/sealion-telegram-bot/internal/prompt"
	"github.com/sealion-telegram-bot/internal/reply"
)

// Relay turns one inbound message into one reply:
// admit, compose, send, format. It holds no state of its own.
type Relay struct {
	limiter  Admitter
	composer Composer
	upstream Upstream
	timeout  time.Duration
	logger   zerolog.Logger
}

// New creates a relay; timeout bounds every upstream call
func New(limiter Admitter, composer Composer, upstream Upstream, timeout time.Duration, logger zerolog.Logger) *Relay {
	return &Relay{
		limiter:  limiter,
		composer: composer,
		upstream: upstream,
		timeout:  timeout,
		logger:   logger.With().Str("component", "relay").Logger(),
	}
}

// Handle returns the reply text for msg. Every failure ends in a
// user-facing message; nothing here is fatal.
func (r *Relay) Handle(ctx context.Context, msg models.InboundMessage) string {
	startTime := time.Now()
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = startTime
	}

	logger := r.logger.With().
		Str("message_id", msg.ID).
		Str("user", string(msg.User)).
		Logger()

	// Check rate limits
	if !r.limiter.Admit(msg.User, msg.ReceivedAt) {
		logger.Info().Msg("Message rejected by rate limiter")
		return reply.Format(models.RateLimited())
	}

	req, err := r.composer.Compose(msg.Text)
	if err != nil {
		if !errors.Is(err, prompt.ErrInvalidInput) {
			logger.Error().Err(err).Msg("Failed to compose upstream request")
		}
		return reply.MsgInvalidInput
	}

	logger.Debug().
		Str("text", msg.Text).
		Msg("Relaying message upstream")

	result := r.upstream.Send(ctx, req, r.timeout)

	switch {
	case result.Kind == models.ResultSuccess:
		logger.Info().
			Int("reply_length", len([]rune(result.Text))).
			Dur("duration", time.Since(startTime)).
			Msg("Reply ready")
	case result.ErrorKind == models.ErrorAuthFailure:
		logger.Error().
			Str("detail", result.Detail).
			Msg("Upstream rejected the API key; check SEA_LION_API_KEY")
	default:
		logger.Warn().
			Str("result", result.Kind.String()).
			Str("error_kind", string(result.ErrorKind)).
			Str("detail", result.Detail).
			Dur("duration", time.Since(startTime)).
			Msg("Upstream call failed")
	}

	return reply.Format(result)
}
