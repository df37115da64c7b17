package config

import "time"

const (
	// Fixed prices, major units. Never taken from client input.
	PriceRUB   = 399
	PriceStars = 250

	// Invoice payload identifying a subscription-cancellation order
	InvoicePayload = "subscription_cancel"
	InvoiceTitle   = "Отмена подписки"

	// External call timeouts
	AssistantTimeout = 10 * time.Second
	InvoiceTimeout   = 15 * time.Second
	StoreTimeout     = 5 * time.Second
	AdminSendTimeout = 10 * time.Second

	// An issued invoice blocks a repeat in the same currency for this long
	InvoiceOutstandingTTL = 10 * time.Minute

	// Assistant generation
	AssistantMaxTokens   = 400
	AssistantTemperature = 0.3

	// Form limits
	MaxFieldLength = 256

	// Catalog search
	MaxSearchResults = 10

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Session eviction sweep interval
	SessionSweepInterval = 10 * time.Minute

	// Ops server shutdown grace period
	ShutdownTimeout = 5 * time.Second
)
