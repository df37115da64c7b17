package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/set-night/subguard/internal/config"
	"github.com/set-night/subguard/internal/domain"
	"github.com/set-night/subguard/internal/metrics"
	"github.com/shopspring/decimal"
)

// PaymentService drives a user from the payment choice to a confirmed payment.
// It is independent of the form state machine.
type PaymentService struct {
	store        SubmissionStore
	gateway      InvoiceGateway
	admin        AdminNotifier
	metrics      *metrics.Recorder
	fiatEnabled  bool
	starsEnabled bool

	now func() time.Time

	mu     sync.Mutex
	states map[int64]paymentEntry
}

type paymentEntry struct {
	state    domain.PaymentState
	currency string
	updated  time.Time
}

type PaymentDeps struct {
	Store        SubmissionStore
	Gateway      InvoiceGateway
	Admin        AdminNotifier
	Metrics      *metrics.Recorder
	FiatEnabled  bool
	StarsEnabled bool
}

func NewPaymentService(deps PaymentDeps) *PaymentService {
	return &PaymentService{
		store:        deps.Store,
		gateway:      deps.Gateway,
		admin:        deps.Admin,
		metrics:      deps.Metrics,
		fiatEnabled:  deps.FiatEnabled,
		starsEnabled: deps.StarsEnabled,
		now:          time.Now,
		states:       make(map[int64]paymentEntry),
	}
}

// Price returns the server-side price for an enabled currency.
func (s *PaymentService) Price(code string) (domain.Currency, int64, error) {
	switch {
	case code == domain.CurrencyRUB.Code && s.fiatEnabled:
		return domain.CurrencyRUB, config.PriceRUB, nil
	case code == domain.CurrencyStars.Code && s.starsEnabled:
		return domain.CurrencyStars, config.PriceStars, nil
	}
	return domain.Currency{}, 0, fmt.Errorf("%w: %q", domain.ErrUnknownCurrency, code)
}

// PresentChoice lists the payment options for a service plus the free
// self-service path and moves the user to the choice state.
func (s *PaymentService) PresentChoice(userID int64, entity string) domain.Reply {
	s.setState(userID, domain.PaymentChoicePending, "")

	var row []domain.Button
	if s.fiatEnabled {
		row = append(row, domain.ActionButton(
			fmt.Sprintf(buttonPayRUB, config.PriceRUB),
			domain.PayAction(domain.CurrencyRUB.Code, config.PriceRUB),
		))
	}
	if s.starsEnabled {
		row = append(row, domain.ActionButton(
			fmt.Sprintf(buttonPayStars, config.PriceStars),
			domain.PayAction(domain.CurrencyStars.Code, config.PriceStars),
		))
	}

	rows := [][]domain.Button{}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []domain.Button{domain.ActionButton(buttonSelfService, domain.FreeAction(entity))})

	return domain.Reply{
		Text:    fmt.Sprintf(textChoosePayment, entity),
		Buttons: rows,
	}
}

// IssueInvoice sends an invoice for the fixed price of the currency. The
// amount the client asked for is only compared, never charged.
func (s *PaymentService) IssueInvoice(ctx context.Context, userID int64, code string, requested int64) error {
	currency, price, err := s.Price(code)
	if err != nil {
		return err
	}
	if requested != price {
		slog.Warn("client amount differs from price, charging price",
			"user_id", userID, "currency", code, "requested", requested, "price", price)
	}

	sub, err := s.getSubmission(ctx, userID)
	if err != nil {
		return err
	}
	if sub.IsPaid() {
		return domain.ErrAlreadyPaid
	}
	if s.outstanding(userID, currency.Code) {
		return domain.ErrInvoiceOutstanding
	}

	inv := domain.Invoice{
		Title:       config.InvoiceTitle,
		Description: fmt.Sprintf("Отмена подписки «%s»", sub.Source),
		Payload:     config.InvoicePayload,
		Currency:    currency,
		Amount:      price,
	}

	sendCtx, cancel := context.WithTimeout(ctx, config.InvoiceTimeout)
	defer cancel()

	err = s.gateway.SendInvoice(sendCtx, userID, inv)
	s.metrics.Invoice(currency.Code, err)
	if err != nil {
		return fmt.Errorf("send invoice: %w", err)
	}

	s.setState(userID, domain.PaymentInvoiceIssued, currency.Code)
	slog.Info("invoice issued", "user_id", userID, "currency", currency.Code, "amount", price)
	return nil
}

// PreCheckout verifies a checkout against the server-side order before the
// provider charges the user.
func (s *PaymentService) PreCheckout(ctx context.Context, userID int64, payload, code string, totalMinor int) error {
	if payload != config.InvoicePayload {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPayload, payload)
	}
	currency, price, err := s.Price(code)
	if err != nil {
		return err
	}
	if totalMinor != currency.ToMinor(price) {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrAmountMismatch, totalMinor, currency.ToMinor(price))
	}

	sub, err := s.getSubmission(ctx, userID)
	if err != nil {
		return err
	}
	if sub.IsPaid() {
		return domain.ErrAlreadyPaid
	}
	return nil
}

// OnConfirmed handles the provider's successful-payment event. Only the first
// confirmation completes the submission and notifies the admin channel; the
// notice carries the confirmed amount.
func (s *PaymentService) OnConfirmed(ctx context.Context, userID int64, totalMinor int, code string) ([]domain.Reply, error) {
	currency, ok := domain.CurrencyByCode(code)
	if !ok {
		s.metrics.Confirmation(code, "unknown_currency")
		return []domain.Reply{domain.TextReply(textPaymentPending)},
			fmt.Errorf("%w: %q", domain.ErrUnknownCurrency, code)
	}
	amount := currency.FromMinor(totalMinor)

	storeCtx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	changed, err := s.store.MarkSubmissionPaid(storeCtx, userID, amount, currency.Code)
	cancel()
	if err != nil {
		s.metrics.Confirmation(currency.Code, "error")
		return []domain.Reply{domain.TextReply(textPaymentPending)},
			fmt.Errorf("mark submission paid: %w", err)
	}

	if prev := s.State(userID); prev != domain.PaymentInvoiceIssued && prev != domain.PaymentConfirmed {
		slog.Warn("payment confirmed without an issued invoice",
			"user_id", userID, "state", prev.String(), "currency", currency.Code)
	}
	s.setState(userID, domain.PaymentConfirmed, currency.Code)

	if !changed {
		return s.unchangedConfirmation(ctx, userID, amount, currency)
	}

	s.metrics.Confirmation(currency.Code, "completed")
	slog.Info("payment confirmed", "user_id", userID, "currency", currency.Code, "amount", amount.String())
	s.notifyPayment(ctx, userID, amount, currency.Code)

	return []domain.Reply{domain.TextReply(fmt.Sprintf(textPaymentDone, amount.String(), currency.Code))}, nil
}

// unchangedConfirmation tells a repeated confirmation apart from money
// received for a user without a stored submission.
func (s *PaymentService) unchangedConfirmation(ctx context.Context, userID int64, amount decimal.Decimal, currency domain.Currency) ([]domain.Reply, error) {
	_, err := s.getSubmission(ctx, userID)
	if errors.Is(err, domain.ErrSubmissionNotFound) {
		s.metrics.Confirmation(currency.Code, "orphan")
		slog.Error("payment received without a submission",
			"user_id", userID, "currency", currency.Code, "amount", amount.String())
		s.notifyPayment(ctx, userID, amount, currency.Code)
		return []domain.Reply{domain.TextReply(textPaymentPending)}, nil
	}
	if err != nil {
		slog.Error("check submission after unchanged confirmation", "error", err, "user_id", userID)
	}

	s.metrics.Confirmation(currency.Code, "duplicate")
		slog.Info("repeated payment confirmation ignored",
			"user_id", userID, "currency", currency.Code, "amount", amount.String())
	return []domain.Reply{domain.TextReply(textPaymentRepeat)}, nil
}

func (s *PaymentService) notifyPayment(ctx context.Context, userID int64, amount decimal.Decimal, code string) {
	notifyCtx, cancel := context.WithTimeout(ctx, config.AdminSendTimeout)
	defer cancel()
	if err := s.admin.NotifyPayment(notifyCtx, userID, amount, code); err != nil {
		slog.Error("notify admin about payment", "error", err, "user_id", userID)
	}
}

// State returns the user's payment state.
func (s *PaymentService) State(userID int64) domain.PaymentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID].state
}

// Evict drops payment states untouched for longer than maxIdle and returns
// how many were removed.
func (s *PaymentService) Evict(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.states {
		if e.updated.Before(cutoff) {
			delete(s.states, id)
			n++
		}
	}
	return n
}

// outstanding reports whether an unpaid invoice in the currency was issued
// recently enough to still be payable.
func (s *PaymentService) outstanding(userID int64, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.states[userID]
	return ok && e.state == domain.PaymentInvoiceIssued && e.currency == code &&
		s.now().Sub(e.updated) < config.InvoiceOutstandingTTL
}

// setState never leaves the confirmed state.
func (s *PaymentService) setState(userID int64, st domain.PaymentState, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.states[userID].state == domain.PaymentConfirmed && st != domain.PaymentConfirmed {
		return
	}
	s.states[userID] = paymentEntry{state: st, currency: code, updated: s.now()}
}

func (s *PaymentService) getSubmission(ctx context.Context, userID int64) (*domain.Submission, error) {
	storeCtx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	defer cancel()

	sub, err := s.store.GetSubmission(storeCtx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}
