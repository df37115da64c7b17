package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/set-night/subguard/internal/domain"
	"github.com/shopspring/decimal"
)

// AdminChannel posts notices to the operator chat.
type AdminChannel struct {
	api    MessageAPI
	chatID int64
}

func NewAdminChannel(api MessageAPI, chatID int64) *AdminChannel {
	return &AdminChannel{api: api, chatID: chatID}
}

func (a *AdminChannel) NotifySubmission(ctx context.Context, sender domain.Sender, sub domain.Submission) error {
	var sb strings.Builder
	sb.WriteString("📥 Новая заявка\n\n")
	fmt.Fprintf(&sb, "Пользователь: %s\n", describeSender(sender))
	fmt.Fprintf(&sb, "ФИО: %s\n", sub.FIO)
	fmt.Fprintf(&sb, "Сервис: %s\n", sub.Source)
	fmt.Fprintf(&sb, "Банк: %s\n", sub.Bank)
	fmt.Fprintf(&sb, "Карта: %s\n", sub.Card)
	fmt.Fprintf(&sb, "Email: %s\n", sub.Email)
	fmt.Fprintf(&sb, "Телефон: %s\n", sub.Phone)
	fmt.Fprintf(&sb, "Время: %s", time.Now().Format("2006-01-02 15:04:05"))
	return a.send(ctx, sb.String())
}

func (a *AdminChannel) NotifyPayment(ctx context.Context, userID int64, amount decimal.Decimal, currency string) error {
	msg := fmt.Sprintf("💰 Оплата получена\n\nПользователь: %d\nСумма: %s %s",
		userID, amount.String(), currency)
	return a.send(ctx, msg)
}

func (a *AdminChannel) RelayMessage(ctx context.Context, sender domain.Sender, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("admin channel: %w", domain.ErrEmptyMessage)
	}
	msg := fmt.Sprintf("✉️ Сообщение от %s\n\n%s", describeSender(sender), text)
	return a.send(ctx, msg)
}

func (a *AdminChannel) send(ctx context.Context, text string) error {
	if err := SendReply(ctx, a.api, a.chatID, domain.TextReply(text)); err != nil {
		return fmt.Errorf("admin channel: %w", err)
	}
	return nil
}

func describeSender(s domain.Sender) string {
	name := s.FirstName
	if s.Username != "" {
		name = strings.TrimSpace(name + " @" + s.Username)
	}
	if name == "" {
		return fmt.Sprintf("id %d", s.ID)
	}
	return fmt.Sprintf("%s (id %d)", name, s.ID)
}
