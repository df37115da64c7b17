package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/subguard/internal/config"
	"github.com/set-night/subguard/internal/domain"
	"github.com/set-night/subguard/internal/middleware"
)

// Default handles updates that no registered handler matched: pre-checkout
// queries and successful-payment service messages.
func (h *Handler) Default(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.PreCheckoutQuery != nil:
		h.handlePreCheckout(ctx, b, update)
	case update.Message != nil && update.Message.SuccessfulPayment != nil:
		h.handleSuccessfulPayment(ctx, b, update)
	}
}

func (h *Handler) handlePreCheckout(ctx context.Context, b *bot.Bot, update *models.Update) {
	q := update.PreCheckoutQuery
	var userID int64
	if q.From != nil {
		userID = q.From.ID
	}

	params := &bot.AnswerPreCheckoutQueryParams{
		PreCheckoutQueryID: q.ID,
		OK:                 true,
	}
	if err := h.payments.PreCheckout(ctx, userID, q.InvoicePayload, q.Currency, q.TotalAmount); err != nil {
		slog.Warn("pre-checkout rejected",
			"error", err, "user_id", userID, "currency", q.Currency, "total", q.TotalAmount,
			"event_id", middleware.EventID(ctx))
		params.OK = false
		params.ErrorMessage = preCheckoutMessage(err)
	}

	if _, err := b.AnswerPreCheckoutQuery(ctx, params); err != nil {
		slog.Error("answer pre-checkout query", "error", err, "user_id", userID)
	}
}

func (h *Handler) handleSuccessfulPayment(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	payment := msg.SuccessfulPayment
	if msg.From == nil {
		return
	}

	if payment.InvoicePayload != config.InvoicePayload {
		slog.Error("successful payment with unknown payload",
			"user_id", msg.From.ID, "payload", payment.InvoicePayload,
			"charge_id", payment.TelegramPaymentChargeID)
		return
	}

	replies, err := h.payments.OnConfirmed(ctx, msg.From.ID, payment.TotalAmount, payment.Currency)
	if err != nil {
		slog.Error("confirm payment", "error", err, "user_id", msg.From.ID,
			"charge_id", payment.TelegramPaymentChargeID, "event_id", middleware.EventID(ctx))
	}
	h.send(ctx, b, msg.Chat.ID, replies)
}

func preCheckoutMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyPaid):
		return "Заявка уже оплачена."
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return "Заявка не найдена. Заполните её командой /start."
	default:
		return "Не удалось проверить счёт. Запросите новый."
	}
}
