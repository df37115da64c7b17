package service

import (
	"context"
	"testing"
	"time"

	"github.com/set-night/subguard/internal/config"
	"github.com/set-night/subguard/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayments(store *memStore, gw *fakeGateway, admin *fakeAdmin) *PaymentService {
	return NewPaymentService(PaymentDeps{
		Store:        store,
		Gateway:      gw,
		Admin:        admin,
		FiatEnabled:  true,
		StarsEnabled: true,
	})
}

func TestPresentChoice(t *testing.T) {
	p := NewPaymentService(PaymentDeps{StarsEnabled: true})

	reply := p.PresentChoice(1, "Кинопоиск")
	assert.Contains(t, reply.Text, "Кинопоиск")
	require.Len(t, reply.Buttons, 2)

	require.Len(t, reply.Buttons[0], 1)
	stars := reply.Buttons[0][0].Action
	require.NotNil(t, stars)
	assert.Equal(t, domain.ActionPay, stars.Kind)
	assert.Equal(t, "XTR", stars.Currency)

	free := reply.Buttons[1][0].Action
	require.NotNil(t, free)
	assert.Equal(t, domain.ActionFree, free.Kind)
	assert.Equal(t, "Кинопоиск", free.Entity)
}

func TestIssueInvoiceUsesServerPrice(t *testing.T) {
	store := newMemStore()
	store.subs[1] = testSubmission(1)
	gw := &fakeGateway{}
	p := newTestPayments(store, gw, &fakeAdmin{})

	require.NoError(t, p.IssueInvoice(context.Background(), 1, "RUB", 1))

	require.Len(t, gw.invoices, 1)
	inv := gw.invoices[0]
	assert.Equal(t, int64(config.PriceRUB), inv.Amount)
	assert.Equal(t, config.InvoicePayload, inv.Payload)
	assert.Equal(t, domain.CurrencyRUB, inv.Currency)
	assert.Equal(t, domain.PaymentInvoiceIssued, p.State(1))
}

func TestIssueInvoiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*memStore, *fakeGateway)
		code    string
		wantErr error
	}{
		{
			name:    "no submission",
			setup:   func(*memStore, *fakeGateway) {},
			code:    "XTR",
			wantErr: domain.ErrSubmissionNotFound,
		},
		{
			name: "already paid",
			setup: func(s *memStore, _ *fakeGateway) {
				sub := testSubmission(1)
				sub.PaymentStatus = domain.PaymentStatusCompleted
				s.subs[1] = sub
			},
			code:    "XTR",
			wantErr: domain.ErrAlreadyPaid,
		},
		{
			name:    "unknown currency",
			setup:   func(s *memStore, _ *fakeGateway) { s.subs[1] = testSubmission(1) },
			code:    "USD",
			wantErr: domain.ErrUnknownCurrency,
		},
		{
			name: "gateway failure",
			setup: func(s *memStore, g *fakeGateway) {
				s.subs[1] = testSubmission(1)
				g.err = errBoom
			},
			code:    "XTR",
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			gw := &fakeGateway{}
			tt.setup(store, gw)
			p := newTestPayments(store, gw, &fakeAdmin{})

			err := p.IssueInvoice(context.Background(), 1, tt.code, config.PriceStars)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, gw.invoices)
			assert.Equal(t, domain.PaymentChoicePending, p.State(1))
		})
	}
}

func TestPaymentStateTransitions(t *testing.T) {
	store := newMemStore()
	store.subs[1] = testSubmission(1)
	p := newTestPayments(store, &fakeGateway{}, &fakeAdmin{})
	ctx := context.Background()

	p.PresentChoice(1, "Okko")
	assert.Equal(t, domain.PaymentChoicePending, p.State(1))

	require.NoError(t, p.IssueInvoice(ctx, 1, "XTR", config.PriceStars))
	assert.Equal(t, domain.PaymentInvoiceIssued, p.State(1))

	_, err := p.OnConfirmed(ctx, 1, config.PriceStars, "XTR")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentConfirmed, p.State(1))

	p.PresentChoice(1, "Okko")
	assert.Equal(t, domain.PaymentConfirmed, p.State(1))
}

func TestIssueInvoiceRejectsOutstandingInvoice(t *testing.T) {
	store := newMemStore()
	store.subs[1] = testSubmission(1)
	gw := &fakeGateway{}
	p := newTestPayments(store, gw, &fakeAdmin{})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, p.IssueInvoice(ctx, 1, "XTR", config.PriceStars))
	require.ErrorIs(t, p.IssueInvoice(ctx, 1, "XTR", config.PriceStars), domain.ErrInvoiceOutstanding)
	require.Len(t, gw.invoices, 1)

	// another currency is a new choice
	require.NoError(t, p.IssueInvoice(ctx, 1, "RUB", config.PriceRUB))
	require.Len(t, gw.invoices, 2)

	now = now.Add(config.InvoiceOutstandingTTL)
	require.NoError(t, p.IssueInvoice(ctx, 1, "RUB", config.PriceRUB))
	assert.Len(t, gw.invoices, 3)
}

func TestPaymentStateEvict(t *testing.T) {
	p := newTestPayments(newMemStore(), &fakeGateway{}, &fakeAdmin{})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	p.PresentChoice(1, "Okko")
	now = now.Add(2 * time.Hour)
	p.PresentChoice(2, "Okko")
	now = now.Add(2 * time.Hour)

	assert.Equal(t, 1, p.Evict(3*time.Hour))
	p.mu.Lock()
	_, kept := p.states[2]
	_, dropped := p.states[1]
	p.mu.Unlock()
	assert.True(t, kept)
	assert.False(t, dropped)
	assert.Equal(t, 0, p.Evict(3*time.Hour))
}

func TestFiatDisabledWithoutProviderToken(t *testing.T) {
	store := newMemStore()
	store.subs[1] = testSubmission(1)
	p := NewPaymentService(PaymentDeps{Store: store, Gateway: &fakeGateway{}, StarsEnabled: true})

	err := p.IssueInvoice(context.Background(), 1, "RUB", config.PriceRUB)
	require.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestPreCheckout(t *testing.T) {
	store := newMemStore()
	store.subs[1] = testSubmission(1)
	paid := testSubmission(2)
	paid.PaymentStatus = domain.PaymentStatusCompleted
	store.subs[2] = paid
	p := newTestPayments(store, &fakeGateway{}, &fakeAdmin{})
	ctx := context.Background()

	rubTotal := domain.CurrencyRUB.ToMinor(config.PriceRUB)

	require.NoError(t, p.PreCheckout(ctx, 1, config.InvoicePayload, "RUB", rubTotal))
	require.NoError(t, p.PreCheckout(ctx, 1, config.InvoicePayload, "XTR", config.PriceStars))

	assert.ErrorIs(t, p.PreCheckout(ctx, 1, "other", "RUB", rubTotal), domain.ErrUnknownPayload)
	assert.ErrorIs(t, p.PreCheckout(ctx, 1, config.InvoicePayload, "EUR", rubTotal), domain.ErrUnknownCurrency)
	assert.ErrorIs(t, p.PreCheckout(ctx, 1, config.InvoicePayload, "RUB", 100), domain.ErrAmountMismatch)
	assert.ErrorIs(t, p.PreCheckout(ctx, 2, config.InvoicePayload, "RUB", rubTotal), domain.ErrAlreadyPaid)
	assert.ErrorIs(t, p.PreCheckout(ctx, 3, config.InvoicePayload, "RUB", rubTotal), domain.ErrSubmissionNotFound)
}

func TestOnConfirmedNotifiesOnce(t *testing.T) {
	store := newMemStore()
	store.subs[1] = testSubmission(1)
	admin := &fakeAdmin{}
	p := newTestPayments(store, &fakeGateway{}, admin)
	ctx := context.Background()

	replies, err := p.OnConfirmed(ctx, 1, 39900, "RUB")
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "399")

	require.Len(t, admin.payments, 1)
	assert.True(t, decimal.NewFromInt(399).Equal(admin.payments[0].Amount))
	assert.Equal(t, "RUB", admin.payments[0].Currency)

	replies, err = p.OnConfirmed(ctx, 1, 39900, "RUB")
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, textPaymentRepeat, replies[0].Text)
	assert.Len(t, admin.payments, 1)

	sub, err := store.GetSubmission(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, sub.PaymentStatus)
	assert.Equal(t, domain.PaymentConfirmed, p.State(1))
}

func TestOnConfirmedWithoutSubmission(t *testing.T) {
	admin := &fakeAdmin{}
	p := newTestPayments(newMemStore(), &fakeGateway{}, admin)

	replies, err := p.OnConfirmed(context.Background(), 9, 250, "XTR")
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, textPaymentPending, replies[0].Text)

	require.Len(t, admin.payments, 1)
	assert.Equal(t, int64(9), admin.payments[0].UserID)
	assert.Equal(t, "XTR", admin.payments[0].Currency)
}

func TestOnConfirmedStarsAmount(t *testing.T) {
	store := newMemStore()
	store.subs[1] = testSubmission(1)
	admin := &fakeAdmin{}
	p := newTestPayments(store, &fakeGateway{}, admin)

	_, err := p.OnConfirmed(context.Background(), 1, 250, "XTR")
	require.NoError(t, err)

	require.Len(t, admin.payments, 1)
	assert.True(t, decimal.NewFromInt(250).Equal(admin.payments[0].Amount))
	assert.Equal(t, "XTR", store.subs[1].PaidCurrency)
}

func TestOnConfirmedStoreFailure(t *testing.T) {
	store := newMemStore()
	store.subs[1] = testSubmission(1)
	store.markErr = errBoom
	admin := &fakeAdmin{}
	p := newTestPayments(store, &fakeGateway{}, admin)

	replies, err := p.OnConfirmed(context.Background(), 1, 250, "XTR")
	require.ErrorIs(t, err, errBoom)
	require.Len(t, replies, 1)
	assert.Equal(t, textPaymentPending, replies[0].Text)
	assert.Empty(t, admin.payments)
	assert.Equal(t, domain.PaymentStatusPending, store.subs[1].PaymentStatus)
}

func TestOnConfirmedAdminFailureStillCompletes(t *testing.T) {
	store := newMemStore()
	store.subs[1] = testSubmission(1)
	p := newTestPayments(store, &fakeGateway{}, &fakeAdmin{err: errBoom})

	_, err := p.OnConfirmed(context.Background(), 1, 250, "XTR")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, store.subs[1].PaymentStatus)
}
