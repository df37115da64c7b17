package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/subguard/internal/config"
	"github.com/set-night/subguard/internal/domain"
)

// MessageAPI is the part of *bot.Bot used to send text.
type MessageAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// SendReply sends a reply as plain text, splitting long text. The keyboard is
// attached to the last part.
func SendReply(ctx context.Context, api MessageAPI, chatID int64, reply domain.Reply) error {
	if reply.Text == "" {
		return nil
	}

	parts := SplitMessage(reply.Text, config.MaxTelegramMessageLen)
	kb := Keyboard(reply.Buttons)

	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		}
		if i == len(parts)-1 && kb != nil {
			params.ReplyMarkup = kb
		}
		if _, err := api.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// SendReplies sends replies in order and stops at the first failure.
func SendReplies(ctx context.Context, api MessageAPI, chatID int64, replies []domain.Reply) error {
	for _, r := range replies {
		if err := SendReply(ctx, api, chatID, r); err != nil {
			return err
		}
	}
	return nil
}

// SplitMessage splits a message into chunks of maxLen characters,
// trying to split at newlines when possible.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= maxLen {
			parts = append(parts, string(runes))
			break
		}

		splitAt := maxLen
		chunk := string(runes[:maxLen])
		if nl := strings.LastIndex(chunk, "\n"); nl >= 0 {
			if at := utf8.RuneCountInString(chunk[:nl]) + 1; at > maxLen/2 {
				splitAt = at
			}
		}

		parts = append(parts, string(runes[:splitAt]))
		runes = runes[splitAt:]
	}

	return parts
}
