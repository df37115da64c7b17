package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/subguard/internal/domain"
)

// InvoiceAPI is the part of *bot.Bot used to issue invoices.
type InvoiceAPI interface {
	SendInvoice(ctx context.Context, params *bot.SendInvoiceParams) (*models.Message, error)
}

// InvoiceSender issues invoices through Telegram Payments. Stars invoices are
// sent without a provider token.
type InvoiceSender struct {
	api           InvoiceAPI
	providerToken string
}

func NewInvoiceSender(api InvoiceAPI, providerToken string) *InvoiceSender {
	return &InvoiceSender{api: api, providerToken: providerToken}
}

func (s *InvoiceSender) SendInvoice(ctx context.Context, userID int64, inv domain.Invoice) error {
	params := &bot.SendInvoiceParams{
		ChatID:      userID,
		Title:       inv.Title,
		Description: inv.Description,
		Payload:     inv.Payload,
		Currency:    inv.Currency.Code,
		Prices: []models.LabeledPrice{
			{Label: inv.Title, Amount: inv.Currency.ToMinor(inv.Amount)},
		},
	}
	if inv.Currency != domain.CurrencyStars {
		params.ProviderToken = s.providerToken
	}

	if _, err := s.api.SendInvoice(ctx, params); err != nil {
		return fmt.Errorf("send invoice: %w", err)
	}
	return nil
}
