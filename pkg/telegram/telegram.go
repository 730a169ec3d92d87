// Package telegram posts short admin alerts to a Telegram chat.
package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Notify sends text to the given chat. An empty token disables the channel.
func Notify(ctx context.Context, token string, chatID int64, text string) error {
	if token == "" || chatID == 0 {
		return nil
	}

	b, err := bot.New(token)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", chatID, err)
	}
	return nil
}
