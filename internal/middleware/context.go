package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/subguard/internal/domain"
)

type ctxKey string

const (
	senderKey  ctxKey = "sender"
	eventIDKey ctxKey = "event_id"
)

// GetSender extracts the update's sender from context.
func GetSender(ctx context.Context) (domain.Sender, bool) {
	s, ok := ctx.Value(senderKey).(domain.Sender)
	return s, ok
}

// WithSender stores a sender in the context.
func WithSender(ctx context.Context, s domain.Sender) context.Context {
	return context.WithValue(ctx, senderKey, s)
}

// EventID returns the id assigned by Logging, or "".
func EventID(ctx context.Context) string {
	id, _ := ctx.Value(eventIDKey).(string)
	return id
}

// SenderLoader returns middleware that puts the update's sender into context.
// Updates from group chats are dropped; the bot only talks in private chats.
func SenderLoader() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User

			switch {
			case update.Message != nil:
				if update.Message.Chat.Type != "private" {
					return
				}
				from = update.Message.From
			case update.CallbackQuery != nil:
				from = &update.CallbackQuery.From
			case update.PreCheckoutQuery != nil:
				from = update.PreCheckoutQuery.From
			}

			if from != nil {
				ctx = WithSender(ctx, SenderFromUser(from))
			}
			next(ctx, b, update)
		}
	}
}

func SenderFromUser(u *models.User) domain.Sender {
	return domain.Sender{ID: u.ID, Username: u.Username, FirstName: u.FirstName}
}
