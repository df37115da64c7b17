package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/set-night/subguard/internal/domain"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS submissions (
    user_id        INTEGER PRIMARY KEY,
    fio            TEXT NOT NULL,
    source         TEXT NOT NULL,
    bank           TEXT NOT NULL,
    card           TEXT NOT NULL,
    email          TEXT NOT NULL,
    phone          TEXT NOT NULL,
    payment_status TEXT NOT NULL DEFAULT 'pending'
        CHECK (payment_status IN ('pending', 'completed')),
    paid_amount    TEXT,
    paid_currency  TEXT,
    created_at     INTEGER NOT NULL,
    updated_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_payment_status_idx ON submissions (payment_status);`

// SQLiteStore keeps submissions in a local SQLite file. Timestamps are unix
// seconds.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection serializes writers and keeps :memory: databases alive
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertSubmission(ctx context.Context, sub domain.Submission) error {
	now := s.now().Unix()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO submissions (user_id, fio, source, bank, card, email, phone, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    fio = excluded.fio,
    source = excluded.source,
    bank = excluded.bank,
    card = excluded.card,
    email = excluded.email,
    phone = excluded.phone,
    updated_at = excluded.updated_at`,
		sub.UserID, sub.FIO, sub.Source, sub.Bank, sub.Card, sub.Email, sub.Phone, now, now)
	if err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSubmission(ctx context.Context, userID int64) (*domain.Submission, error) {
	var (
		sub       domain.Submission
		status    string
		amount    sql.NullString
		currency  sql.NullString
		createdAt int64
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT user_id, fio, source, bank, card, email, phone, payment_status,
       paid_amount, paid_currency, created_at, updated_at
FROM submissions
WHERE user_id = ?`, userID).Scan(
		&sub.UserID, &sub.FIO, &sub.Source, &sub.Bank, &sub.Card, &sub.Email, &sub.Phone,
		&status, &amount, &currency, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
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
	sub.PaidCurrency = currency.String
	sub.CreatedAt = time.Unix(createdAt, 0)
	sub.UpdatedAt = time.Unix(updatedAt, 0)
	return &sub, nil
}

func (s *SQLiteStore) MarkSubmissionPaid(ctx context.Context, userID int64, amount decimal.Decimal, currency string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE submissions
SET payment_status = 'completed', paid_amount = ?, paid_currency = ?, updated_at = ?
WHERE user_id = ? AND payment_status = 'pending'`,
		amount.String(), currency, s.now().Unix(), userID)
	if err != nil {
		return false, fmt.Errorf("mark submission paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
