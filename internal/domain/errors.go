package domain

import "errors"

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyPaid        = errors.New("submission already paid")
	ErrUnknownCurrency    = errors.New("unknown currency")
	ErrUnknownPayload     = errors.New("unknown invoice payload")
	ErrAmountMismatch     = errors.New("amount does not match price")
	ErrInvalidAction      = errors.New("invalid action")
	ErrInvalidField       = errors.New("invalid field value")
	ErrFieldTooLong       = errors.New("field value too long")
	ErrEmptyField         = errors.New("field value is empty")
	ErrEmptyReply         = errors.New("assistant returned empty reply")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrInvoiceOutstanding = errors.New("invoice already outstanding")
)
