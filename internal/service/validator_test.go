package service

import (
	"strings"
	"testing"

	"github.com/set-night/subguard/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name  string
		field domain.Field
		value string
		ok    bool
	}{
		{"fio cyrillic", domain.FieldFIO, "Иванов Иван Иванович", true},
		{"fio latin", domain.FieldFIO, "Smith John Paul", true},
		{"fio two tokens", domain.FieldFIO, "Иванов Иван", false},
		{"fio lowercase", domain.FieldFIO, "иванов Иван Иванович", false},
		{"fio single letter token", domain.FieldFIO, "Иванов И Иванович", false},
		{"fio double space", domain.FieldFIO, "Иванов  Иван Иванович", false},
		{"card valid", domain.FieldCard, "123456*6789", true},
		{"card five leading digits", domain.FieldCard, "12345*6789", false},
		{"card no star", domain.FieldCard, "1234566789", false},
		{"card full number", domain.FieldCard, "1234567890123456", false},
		{"email valid", domain.FieldEmail, "user@mail.ru", true},
		{"email no tld dot", domain.FieldEmail, "user@mail", false},
		{"email space", domain.FieldEmail, "us er@mail.ru", false},
		{"email two at", domain.FieldEmail, "a@b@c.ru", false},
		{"phone plus", domain.FieldPhone, "+79001234567", true},
		{"phone plain", domain.FieldPhone, "89001234567", true},
		{"phone too short", domain.FieldPhone, "900123", false},
		{"phone too long", domain.FieldPhone, "+1234567890123456", false},
		{"phone dashes", domain.FieldPhone, "+7-900-123-45-67", false},
		{"source free text", domain.FieldSource, "Яндекс Плюс?", true},
		{"bank free text", domain.FieldBank, "а какой банк нужен?", true},
		{"bank empty", domain.FieldBank, "", false},
		{"source too long", domain.FieldSource, strings.Repeat("я", 257), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(tt.field, NormalizeField(tt.value))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNormalizeFieldTrims(t *testing.T) {
	assert.NoError(t, ValidateField(domain.FieldCard, NormalizeField("  123456*6789\n")))
}

func TestFallbackHintNamesFormat(t *testing.T) {
	for _, f := range domain.FormFields {
		assert.NotEmpty(t, FallbackHint(f), f)
	}
	assert.Contains(t, FallbackHint(domain.FieldCard), "123456*7890")
}
