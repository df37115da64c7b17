package domain

import "time"

// State is a step of the intake conversation.
type State int

const (
	StateDone State = iota
	StateIdle
	StateEnteringName
	StateEnteringSource
	StateEnteringBank
	StateEnteringCard
	StateEnteringEmail
	StateEnteringPhone
	StateAwaitingAdminMessage
)

func (s State) String() string {
	switch s {
	case StateDone:
		return "done"
	case StateIdle:
		return "idle"
	case StateEnteringName:
		return "entering_name"
	case StateEnteringSource:
		return "entering_source"
	case StateEnteringBank:
		return "entering_bank"
	case StateEnteringCard:
		return "entering_card"
	case StateEnteringEmail:
		return "entering_email"
	case StateEnteringPhone:
		return "entering_phone"
	case StateAwaitingAdminMessage:
		return "awaiting_admin_message"
	default:
		return "unknown"
	}
}

// IsFormStep reports whether the state collects a form field.
func (s State) IsFormStep() bool {
	return s >= StateEnteringName && s <= StateEnteringPhone
}

// Terminal reports whether the state is equivalent to having no session.
func (s State) Terminal() bool {
	return s == StateDone
}

// Session is the transient per-user conversation state.
type Session struct {
	State                State
	Fields               map[Field]string
	AwaitingAdminMessage bool
	UpdatedAt            time.Time
}

// NewSession returns a fresh session in the idle state.
func NewSession() Session {
	return Session{
		State:  StateIdle,
		Fields: make(map[Field]string),
	}
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	fields := make(map[Field]string, len(s.Fields))
	for k, v := range s.Fields {
		fields[k] = v
	}
	s.Fields = fields
	return s
}

// Sender identifies the user an event came from.
type Sender struct {
	ID        int64
	Username  string
	FirstName string
}
