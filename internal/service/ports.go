package service

import (
	"context"

	"github.com/set-night/subguard/internal/domain"
	"github.com/shopspring/decimal"
)

// SubmissionStore persists completed intake forms.
type SubmissionStore interface {
	// UpsertSubmission inserts or replaces the form fields. It never changes
	// the payment status of an existing row.
	UpsertSubmission(ctx context.Context, sub domain.Submission) error
	// GetSubmission returns domain.ErrSubmissionNotFound when absent.
	GetSubmission(ctx context.Context, userID int64) (*domain.Submission, error)
	// MarkSubmissionPaid moves a pending submission to completed and reports
	// whether this call made the change.
	MarkSubmissionPaid(ctx context.Context, userID int64, amount decimal.Decimal, currency string) (bool, error)
}

// AdminNotifier delivers notices to the operator channel.
type AdminNotifier interface {
	NotifySubmission(ctx context.Context, sender domain.Sender, sub domain.Submission) error
	NotifyPayment(ctx context.Context, userID int64, amount decimal.Decimal, currency string) error
	RelayMessage(ctx context.Context, sender domain.Sender, text string) error
}

// InvoiceGateway issues invoices through the payment provider.
type InvoiceGateway interface {
	SendInvoice(ctx context.Context, userID int64, inv domain.Invoice) error
}

// BrokerLookup searches the service catalog.
type BrokerLookup interface {
	Search(query string) []domain.BrokerEntry
	ByIndex(i int) (domain.BrokerEntry, bool)
}
