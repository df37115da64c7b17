package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxCallbackData is the Telegram limit for inline button payloads, in bytes.
const MaxCallbackData = 64

// ActionKind tags a structured button action.
type ActionKind string

const (
	ActionStartForm    ActionKind = "start_form"
	ActionContactAdmin ActionKind = "contact_admin"
	ActionAbout        ActionKind = "about"
	ActionBrokerSelect ActionKind = "broker"
	ActionPay          ActionKind = "pay"
	ActionFree         ActionKind = "free"
	ActionBack         ActionKind = "back"
)

// Action is a button click decoded from its callback payload.
type Action struct {
	Kind     ActionKind
	Index    int
	Currency string
	Amount   int64
	Entity   string
}

func StartFormAction() Action    { return Action{Kind: ActionStartForm} }
func ContactAdminAction() Action { return Action{Kind: ActionContactAdmin} }
func AboutAction() Action        { return Action{Kind: ActionAbout} }

func BrokerSelectAction(index int) Action {
	return Action{Kind: ActionBrokerSelect, Index: index}
}

func PayAction(currency string, amount int64) Action {
	return Action{Kind: ActionPay, Currency: currency, Amount: amount}
}

func FreeAction(entity string) Action {
	return Action{Kind: ActionFree, Entity: fitEntity(ActionFree, entity)}
}

func BackAction(entity string) Action {
	return Action{Kind: ActionBack, Entity: fitEntity(ActionBack, entity)}
}

// Data encodes the action as a callback payload.
func (a Action) Data() string {
	switch a.Kind {
	case ActionBrokerSelect:
		return fmt.Sprintf("%s:%d", a.Kind, a.Index)
	case ActionPay:
		return fmt.Sprintf("%s:%s:%d", a.Kind, a.Currency, a.Amount)
	case ActionFree, ActionBack:
		return string(a.Kind) + ":" + a.Entity
	default:
		return string(a.Kind)
	}
}

// ParseAction decodes and validates a callback payload.
func ParseAction(data string) (Action, error) {
	kind, rest, hasArgs := strings.Cut(data, ":")

	switch ActionKind(kind) {
	case ActionStartForm, ActionContactAdmin, ActionAbout:
		if hasArgs {
			return Action{}, fmt.Errorf("%w: %q takes no arguments", ErrInvalidAction, kind)
		}
		return Action{Kind: ActionKind(kind)}, nil

	case ActionBrokerSelect:
		idx, err := strconv.Atoi(rest)
		if err != nil || idx < 0 {
			return Action{}, fmt.Errorf("%w: bad broker index %q", ErrInvalidAction, rest)
		}
		return BrokerSelectAction(idx), nil

	case ActionPay:
		currency, amountStr, ok := strings.Cut(rest, ":")
		if !ok {
			return Action{}, fmt.Errorf("%w: pay needs currency and amount", ErrInvalidAction)
		}
		if _, known := CurrencyByCode(currency); !known {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, currency)
		}
		amount, err := strconv.ParseInt(amountStr, 10, 64)
		if err != nil || amount <= 0 {
			return Action{}, fmt.Errorf("%w: bad amount %q", ErrInvalidAction, amountStr)
		}
		return PayAction(currency, amount), nil

	case ActionFree, ActionBack:
		if !hasArgs || strings.TrimSpace(rest) == "" {
			return Action{}, fmt.Errorf("%w: %s needs an entity", ErrInvalidAction, kind)
		}
		return Action{Kind: ActionKind(kind), Entity: rest}, nil
	}

	return Action{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, kind)
}

// fitEntity truncates an entity name on a rune boundary so the encoded
// payload stays within MaxCallbackData.
func fitEntity(kind ActionKind, entity string) string {
	limit := MaxCallbackData - len(kind) - 1
	if len(entity) <= limit {
		return entity
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(entity[cut]) {
		cut--
	}
	return entity[:cut]
}
