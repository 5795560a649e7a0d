package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sealion-telegram-bot/internal/models"
)

const helpMessage = "Hello! I am an AI assistant powered by SEA-LION.\n\n" +
	"Just send me a question as a text message and I will answer it.\n" +
	"Each message is answered on its own; I do not remember earlier messages."

// WebhookHandler receives updates posted by Telegram
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn().Err(err).Msg("Failed to decode webhook update")
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
		return
	}

	b.handleUpdate(r.Context(), *update)

	// Acknowledge receipt of the webhook to Telegram
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdate processes incoming update
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// Wrap in recover middleware
	b.recoverMiddleware(func() {
		// Only process messages (ignore e.g. edits, callbacks)
		if update.Message == nil {
			b.logger.Debug().
				Int("update_id", update.UpdateID).
				Msg("Ignoring non-message update")
			return
		}
		b.handleMessage(ctx, update.Message)
	})
}

// handleMessage relays one message and sends the reply back
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	// Handle commands
	if message.IsCommand() {
		switch message.Command() {
		case "start", "help":
			b.sendPlain(chatID, helpMessage)
			return
		}
	}

	msg := models.InboundMessage{
		ID:         uuid.NewString(),
		User:       userIdentity(message),
		Text:       message.Text,
		ReceivedAt: time.Now(),
	}

	b.logger.Info().
		Str("message_id", msg.ID).
		Int64("chat_id", chatID).
		Str("user", string(msg.User)).
		Msg("Received message")

	// Send typing action
	b.sendTypingAction(chatID)

	replyText := b.relay.Handle(ctx, msg)

	if err := b.sendReply(chatID, replyText); err != nil {
		return
	}

	b.logger.Info().
		Str("message_id", msg.ID).
		Int64("chat_id", chatID).
		Msg("Message sent successfully")
}

// userIdentity keys rate limits by sender, falling back to the chat
// for channel posts that carry no sender
func userIdentity(message *tgbotapi.Message) models.UserIdentity {
	if message.From != nil {
		return models.UserIdentity(strconv.FormatInt(message.From.ID, 10))
	}
	return models.UserIdentity(strconv.FormatInt(message.Chat.ID, 10))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
