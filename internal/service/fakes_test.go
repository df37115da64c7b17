package service

import (
	"context"
	"errors"
	"sync"

	"github.com/set-night/subguard/internal/domain"
	"github.com/shopspring/decimal"
)

type memStore struct {
	mu        sync.Mutex
	subs      map[int64]domain.Submission
	upserts   int
	upsertErr error
	markErr   error
}

func newMemStore() *memStore {
	return &memStore{subs: make(map[int64]domain.Submission)}
}

func (m *memStore) UpsertSubmission(ctx context.Context, sub domain.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	if prev, ok := m.subs[sub.UserID]; ok {
		sub.PaymentStatus = prev.PaymentStatus
		sub.PaidAmount = prev.PaidAmount
		sub.PaidCurrency = prev.PaidCurrency
	}
	if sub.PaymentStatus == "" {
		sub.PaymentStatus = domain.PaymentStatusPending
	}
	m.subs[sub.UserID] = sub
	return nil
}

func (m *memStore) GetSubmission(ctx context.Context, userID int64) (*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[userID]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	return &sub, nil
}

func (m *memStore) MarkSubmissionPaid(ctx context.Context, userID int64, amount decimal.Decimal, currency string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return false, m.markErr
	}
	sub, ok := m.subs[userID]
	if !ok || sub.PaymentStatus == domain.PaymentStatusCompleted {
		return false, nil
	}
	sub.PaymentStatus = domain.PaymentStatusCompleted
	sub.PaidAmount = amount
	sub.PaidCurrency = currency
	m.subs[userID] = sub
	return true, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

type paymentNotice struct {
	UserID   int64
	Amount   decimal.Decimal
	Currency string
}

type fakeAdmin struct {
	mu          sync.Mutex
	submissions []domain.Submission
	payments    []paymentNotice
	relayed     []string
	err         error
}

func (f *fakeAdmin) NotifySubmission(ctx context.Context, sender domain.Sender, sub domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, sub)
	return f.err
}

func (f *fakeAdmin) NotifyPayment(ctx context.Context, userID int64, amount decimal.Decimal, currency string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append(f.payments, paymentNotice{UserID: userID, Amount: amount, Currency: currency})
	return f.err
}

func (f *fakeAdmin) RelayMessage(ctx context.Context, sender domain.Sender, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.relayed = append(f.relayed, text)
	return nil
}

type fakeGateway struct {
	mu       sync.Mutex
	invoices []domain.Invoice
	err      error
}

func (f *fakeGateway) SendInvoice(ctx context.Context, userID int64, inv domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.invoices = append(f.invoices, inv)
	return nil
}

// scriptedAssistant returns a fixed answer and records every prompt.
type scriptedAssistant struct {
	mu      sync.Mutex
	answer  string
	err     error
	block   bool
	prompts []string
	lastErr error
}

func (a *scriptedAssistant) Complete(ctx context.Context, system, prompt string) (string, error) {
	a.mu.Lock()
	a.prompts = append(a.prompts, prompt)
	answer, err, block := a.answer, a.err, a.block
	a.mu.Unlock()

	if block {
		<-ctx.Done()
		a.mu.Lock()
		a.lastErr = ctx.Err()
		a.mu.Unlock()
		return "", ctx.Err()
	}
	return answer, err
}

func (a *scriptedAssistant) blockedErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *scriptedAssistant) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.prompts)
}

var errBoom = errors.New("boom")

func testSubmission(userID int64) domain.Submission {
	return domain.Submission{
		UserID:        userID,
		FIO:           "Иванов Иван Иванович",
		Source:        "Кинопоиск",
		Bank:          "Сбербанк",
		Card:          "123456*7890",
		Email:         "ivan@example.com",
		Phone:         "+79001234567",
		PaymentStatus: domain.PaymentStatusPending,
	}
}
