package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Submission is the durable record of a completed intake form.
type Submission struct {
	UserID        int64
	FIO           string
	Source        string
	Bank          string
	Card          string
	Email         string
	Phone         string
	PaymentStatus PaymentStatus
	PaidAmount    decimal.Decimal
	PaidCurrency  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SubmissionFromFields builds a pending submission from collected form fields.
func SubmissionFromFields(userID int64, fields map[Field]string) Submission {
	return Submission{
		UserID:        userID,
		FIO:           fields[FieldFIO],
		Source:        fields[FieldSource],
		Bank:          fields[FieldBank],
		Card:          fields[FieldCard],
		Email:         fields[FieldEmail],
		Phone:         fields[FieldPhone],
		PaymentStatus: PaymentStatusPending,
	}
}

func (s *Submission) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusCompleted
}
