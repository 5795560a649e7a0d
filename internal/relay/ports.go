package relay

//go:generate mockgen -source=ports.go -destination=mock/ports.go -package=mock

import (
	"context"
	"time"

	"github.com/sealion-telegram-bot/internal/models"
)

// Admitter decides whether a user may send another request
type Admitter interface {
	Admit(user models.UserIdentity, now time.Time) bool
}

// Composer turns user text into an upstream request
type Composer interface {
	Compose(userText string) (*models.UpstreamRequest, error)
}

// Upstream performs the LLM call
type Upstream interface {
	Send(ctx context.Context, req *models.UpstreamRequest, timeout time.Duration) models.UpstreamResult
}
