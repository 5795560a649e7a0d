package reply_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sealion-telegram-bot/internal/models"
	"github.com/sealion-telegram-bot/internal/reply"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		result models.UpstreamResult
		want   string
	}{
		{"success passes text through", models.Success("You can contribute *up to* $8,000."), "You can contribute *up to* $8,000."},
		{"rate limited", models.RateLimited(), reply.MsgRateLimited},
		{"timeout", models.Timeout(), reply.MsgTimeout},
		{"auth failure", models.UpstreamFailure(models.ErrorAuthFailure, "401"), reply.MsgUnavailable},
		{"provider throttled", models.UpstreamFailure(models.ErrorRateLimitedByProvider, "429"), reply.MsgUnavailable},
		{"server error", models.UpstreamFailure(models.ErrorServerError, "502"), reply.MsgUnavailable},
		{"malformed", models.UpstreamFailure(models.ErrorMalformedResponse, "no choices"), reply.MsgUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reply.Format(tt.result))
		})
	}
}

func TestFormat_NeverLeaksDetail(t *testing.T) {
	details := []string{
		"POST https://api.sea-lion.ai/v1/chat/completions: 401 Unauthorized",
		"invalid api key sk-live-abc123",
		"upstream connect error or disconnect/reset before headers",
		reply.MsgUnavailable + " internal",
	}
	kinds := []models.ErrorKind{
		models.ErrorAuthFailure,
		models.ErrorRateLimitedByProvider,
		models.ErrorServerError,
		models.ErrorMalformedResponse,
	}

	for _, kind := range kinds {
		for _, detail := range details {
			out := reply.Format(models.UpstreamFailure(kind, detail))
			assert.NotContains(t, out, detail)
			assert.Equal(t, reply.MsgUnavailable, out)
		}
	}
}
