package bot

import (
	"fmt"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// recoverMiddleware handles panics in message handlers
func (b *Bot) recoverMiddleware(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Panic recovered in handler")
		}
	}()

	handler()
}

// sendReply escapes text for MarkdownV2 and sends it in as many messages
// as Telegram's length limit requires
func (b *Bot) sendReply(chatID int64, text string) error {
	for _, chunk := range splitEscaped(text, maxMessageLength) {
		if err := b.sendMessage(chatID, chunk, tgbotapi.ModeMarkdownV2); err != nil {
			return err
		}
	}
	return nil
}

// sendPlain sends text without any parse mode
func (b *Bot) sendPlain(chatID int64, text string) {
	_ = b.sendMessage(chatID, text, "")
}

// sendMessage sends a message to the chat
func (b *Bot) sendMessage(chatID int64, text, parseMode string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode

	_, err := b.api.Send(msg)
	if err != nil {
		b.logger.Error().
			Err(err).
			Int64("chat_id", chatID).
			Msg("Failed to send message")
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// sendTypingAction sends typing action to the chat
func (b *Bot) sendTypingAction(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	_, _ = b.api.Request(action)
}
