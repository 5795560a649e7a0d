package reply

import "github.com/sealion-telegram-bot/internal/models"

// User-facing messages for every non-success outcome
const (
	MsgRateLimited  = "You are sending messages too quickly. Please wait a minute and try again later."
	MsgTimeout      = "Sorry, the service took too long to respond. Please try again."
	MsgUnavailable  = "Sorry, the service is unavailable right now. Please try again later."
	MsgInvalidInput = "Please send a valid question."
)

// Format maps an upstream result to the text sent back to the user.
// Error details are never included.
func Format(result models.UpstreamResult) string {
	switch result.Kind {
	case models.ResultSuccess:
		return result.Text
	case models.ResultRateLimited:
		return MsgRateLimited
	case models.ResultTimeout:
		return MsgTimeout
	default:
		return MsgUnavailable
	}
}
