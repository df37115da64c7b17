package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/set-night/subguard/internal/config"
	"github.com/set-night/subguard/internal/domain"
)

var fieldPatterns = map[domain.Field]*regexp.Regexp{
	domain.FieldFIO:   regexp.MustCompile(`^\p{Lu}\p{Ll}+ \p{Lu}\p{Ll}+ \p{Lu}\p{Ll}+$`),
	domain.FieldCard:  regexp.MustCompile(`^\d{6}\*\d{4}$`),
	domain.FieldEmail: regexp.MustCompile(`^[^\s@]+@[^\s@]+\.\S+$`),
	domain.FieldPhone: regexp.MustCompile(`^\+?\d{10,15}$`),
}

var fallbackHints = map[domain.Field]string{
	domain.FieldFIO:    "❌ Введите ФИО полностью: три слова с заглавной буквы, например «Иванов Иван Иванович».",
	domain.FieldSource: "❌ Укажите название сервиса, который списывает деньги.",
	domain.FieldBank:   "❌ Укажите название банка, выпустившего карту.",
	domain.FieldCard:   "❌ Введите маску карты: первые 6 цифр, звёздочка и последние 4 цифры, например 123456*7890.",
	domain.FieldEmail:  "❌ Введите корректный email, например name@example.com.",
	domain.FieldPhone:  "❌ Введите номер телефона: 10–15 цифр, можно с «+» в начале, например +79001234567.",
}

// NormalizeField trims surrounding whitespace from a raw field value.
func NormalizeField(value string) string {
	return strings.TrimSpace(value)
}

// ValidateField checks a normalized value against the field's syntax.
func ValidateField(field domain.Field, value string) error {
	if value == "" {
		return domain.ErrEmptyField
	}
	if utf8.RuneCountInString(value) > config.MaxFieldLength {
		return domain.ErrFieldTooLong
	}
	re, ok := fieldPatterns[field]
	if !ok {
		return nil
	}
	if !re.MatchString(value) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidField, field)
	}
	return nil
}

// FallbackHint is the fixed corrective message for a field.
func FallbackHint(field domain.Field) string {
	if hint, ok := fallbackHints[field]; ok {
		return hint
	}
	return "❌ Некорректное значение, попробуйте ещё раз."
}
