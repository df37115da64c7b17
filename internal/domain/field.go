package domain

// Field names a value collected by the intake form.
type Field string

const (
	FieldFIO    Field = "fio"
	FieldSource Field = "source"
	FieldBank   Field = "bank"
	FieldCard   Field = "card"
	FieldEmail  Field = "email"
	FieldPhone  Field = "phone"
)

// FormFields lists the fields in the order they are asked.
var FormFields = []Field{FieldFIO, FieldSource, FieldBank, FieldCard, FieldEmail, FieldPhone}

// FieldForState returns the field collected in a form state.
func FieldForState(s State) (Field, bool) {
	switch s {
	case StateEnteringName:
		return FieldFIO, true
	case StateEnteringSource:
		return FieldSource, true
	case StateEnteringBank:
		return FieldBank, true
	case StateEnteringCard:
		return FieldCard, true
	case StateEnteringEmail:
		return FieldEmail, true
	case StateEnteringPhone:
		return FieldPhone, true
	default:
		return "", false
	}
}

// Label is the human-readable name of the field used in prompts.
func (f Field) Label() string {
	switch f {
	case FieldFIO:
		return "ФИО"
	case FieldSource:
		return "сервис"
	case FieldBank:
		return "банк"
	case FieldCard:
		return "карта"
	case FieldEmail:
		return "email"
	case FieldPhone:
		return "телефон"
	default:
		return string(f)
	}
}
