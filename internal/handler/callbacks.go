package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/subguard/internal/domain"
	"github.com/set-night/subguard/internal/middleware"
)

// handleCallback decodes the button payload and hands it to the conversation.
// The query is always answered, even when the click is ignored.
func (h *Handler) handleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID}); err != nil {
		slog.Warn("answer callback query", "error", err, "event_id", middleware.EventID(ctx))
	}

	sender, ok := middleware.GetSender(ctx)
	if !ok {
		return
	}

	action, err := domain.ParseAction(cq.Data)
	if err != nil {
		slog.Warn("invalid callback data", "error", err, "user_id", sender.ID, "data", cq.Data)
		return
	}

	h.send(ctx, b, sender.ID, h.conv.HandleAction(ctx, sender, action))
}
