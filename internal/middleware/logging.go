package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// Logging returns middleware that tags each update with an event id and logs
// its processing time.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()
			eventID := uuid.NewString()
			ctx = context.WithValue(ctx, eventIDKey, eventID)

			updateType := "unknown"
			var chatID int64
			var userID int64

			switch {
			case update.Message != nil:
				updateType = "message"
				chatID = update.Message.Chat.ID
				if update.Message.From != nil {
					userID = update.Message.From.ID
				}
				if update.Message.SuccessfulPayment != nil {
					updateType = "successful_payment"
				}
			case update.CallbackQuery != nil:
				updateType = "callback_query"
				if update.CallbackQuery.Message.Message != nil {
					chatID = update.CallbackQuery.Message.Message.Chat.ID
				}
				userID = update.CallbackQuery.From.ID
			case update.PreCheckoutQuery != nil:
				updateType = "pre_checkout_query"
				if update.PreCheckoutQuery.From != nil {
					userID = update.PreCheckoutQuery.From.ID
				}
			}

			next(ctx, b, update)

			slog.Debug("update processed",
				"event_id", eventID,
				"type", updateType,
				"chat_id", chatID,
				"user_id", userID,
				"duration", time.Since(start),
			)
		}
	}
}
