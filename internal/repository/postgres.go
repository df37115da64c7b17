package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/subguard/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	pgUpsertSubmission = `
INSERT INTO submissions (user_id, fio, source, bank, card, email, phone)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE SET
    fio = EXCLUDED.fio,
    source = EXCLUDED.source,
    bank = EXCLUDED.bank,
    card = EXCLUDED.card,
    email = EXCLUDED.email,
    phone = EXCLUDED.phone,
    updated_at = now()`

	pgGetSubmission = `
SELECT user_id, fio, source, bank, card, email, phone, payment_status,
       paid_amount::text, paid_currency, created_at, updated_at
FROM submissions
WHERE user_id = $1`

	pgMarkSubmissionPaid = `
UPDATE submissions
SET payment_status = 'completed',
    paid_amount = $2::numeric,
    paid_currency = $3,
    updated_at = now()
WHERE user_id = $1 AND payment_status = 'pending'`
)

// PostgresStore keeps submissions in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) UpsertSubmission(ctx context.Context, sub domain.Submission) error {
	_, err := s.pool.Exec(ctx, pgUpsertSubmission,
		sub.UserID, sub.FIO, sub.Source, sub.Bank, sub.Card, sub.Email, sub.Phone)
	if err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSubmission(ctx context.Context, userID int64) (*domain.Submission, error) {
	var (
		sub       domain.Submission
		status    string
		amount    pgtype.Text
		currency  pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, pgGetSubmission, userID).Scan(
		&sub.UserID, &sub.FIO, &sub.Source, &sub.Bank, &sub.Card, &sub.Email, &sub.Phone,
		&status, &amount, &currency, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	sub.PaymentStatus = domain.PaymentStatus(status)
	sub.PaidAmount, err = textToDecimal(amount.Valid, amount.String)
	if err != nil {
		return nil, err
	}
	sub.PaidCurrency = pgTextToString(currency)
	sub.CreatedAt = pgTimestamptzToTime(createdAt)
	sub.UpdatedAt = pgTimestamptzToTime(updatedAt)
	return &sub, nil
}

// MarkSubmissionPaid only updates pending rows, so repeated confirmations
// report false and never touch the stored amount.
func (s *PostgresStore) MarkSubmissionPaid(ctx context.Context, userID int64, amount decimal.Decimal, currency string) (bool, error) {
	tag, err := s.pool.Exec(ctx, pgMarkSubmissionPaid, userID, amount.String(), currency)
	if err != nil {
		return false, fmt.Errorf("mark submission paid: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
