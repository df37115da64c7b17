package domain

import "github.com/shopspring/decimal"

// Currency is a payment currency together with its minor-unit factor.
type Currency struct {
	Code       string
	MinorUnits int64
}

var (
	CurrencyRUB   = Currency{Code: "RUB", MinorUnits: 100}
	CurrencyStars = Currency{Code: "XTR", MinorUnits: 1}
)

// CurrencyByCode resolves one of the supported currencies.
func CurrencyByCode(code string) (Currency, bool) {
	switch code {
	case CurrencyRUB.Code:
		return CurrencyRUB, true
	case CurrencyStars.Code:
		return CurrencyStars, true
	default:
		return Currency{}, false
	}
}

// ToMinor converts a major-unit amount to the gateway's minor units.
func (c Currency) ToMinor(amount int64) int {
	return int(amount * c.MinorUnits)
}

// FromMinor converts a gateway minor-unit total back to major units.
func (c Currency) FromMinor(total int) decimal.Decimal {
	return decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(c.MinorUnits))
}

// Invoice is an ephemeral request to charge a user a fixed price.
type Invoice struct {
	Title       string
	Description string
	Payload     string
	Currency    Currency
	Amount      int64
}

type PaymentState int

const (
	PaymentChoicePending PaymentState = iota
	PaymentInvoiceIssued
	PaymentConfirmed
)

func (s PaymentState) String() string {
	switch s {
	case PaymentChoicePending:
		return "choice_pending"
	case PaymentInvoiceIssued:
		return "invoice_issued"
	case PaymentConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}
