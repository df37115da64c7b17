package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/subguard/internal/middleware"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	sender, ok := middleware.GetSender(ctx)
	if !ok || update.Message == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, h.conv.Start(ctx, sender))
}

func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	sender, ok := middleware.GetSender(ctx)
	if !ok || update.Message == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, h.conv.Cancel(ctx, sender))
}

func (h *Handler) handleMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	sender, ok := middleware.GetSender(ctx)
	if !ok || update.Message == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, h.conv.Menu(ctx, sender))
}

// handleFind serves "/find <query>".
func (h *Handler) handleFind(ctx context.Context, b *bot.Bot, update *models.Update) {
	sender, ok := middleware.GetSender(ctx)
	if !ok || update.Message == nil {
		return
	}
	_, query, _ := strings.Cut(update.Message.Text, " ")
	h.send(ctx, b, update.Message.Chat.ID, h.conv.Find(ctx, sender, query))
}

// handleText is the catch-all message handler. Every message matches the
// empty prefix, so service messages without text land here too.
func (h *Handler) handleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.SuccessfulPayment != nil {
		h.handleSuccessfulPayment(ctx, b, update)
		return
	}

	sender, ok := middleware.GetSender(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	// unknown commands
	if strings.HasPrefix(update.Message.Text, "/") {
		h.send(ctx, b, chatID, h.conv.Menu(ctx, sender))
		return
	}

	h.send(ctx, b, chatID, h.conv.HandleText(ctx, sender, update.Message.Text))
}
