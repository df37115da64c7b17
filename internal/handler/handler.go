package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/set-night/subguard/internal/domain"
	"github.com/set-night/subguard/internal/middleware"
	"github.com/set-night/subguard/internal/service"
	"github.com/set-night/subguard/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot      *bot.Bot
	conv     *service.Conversation
	payments *service.PaymentService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot          *bot.Bot
	Conversation *service.Conversation
	Payments     *service.PaymentService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:      deps.Bot,
		conv:     deps.Conversation,
		payments: deps.Payments,
	}
}

func (h *Handler) send(ctx context.Context, b *bot.Bot, chatID int64, replies []domain.Reply) {
	if err := telegram.SendReplies(ctx, b, chatID, replies); err != nil {
		slog.Error("send replies", "error", err, "chat_id", chatID, "event_id", middleware.EventID(ctx))
	}
}
