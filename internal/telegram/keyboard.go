package telegram

import (
	"github.com/go-telegram/bot/models"
	"github.com/set-night/subguard/internal/domain"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// URLButton creates a URL inline keyboard button.
func URLButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text: text,
		URL:  url,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// Keyboard renders reply buttons. It returns nil when there is nothing to show.
func Keyboard(rows [][]domain.Button) *models.InlineKeyboardMarkup {
	var out [][]models.InlineKeyboardButton
	for _, row := range rows {
		var line []models.InlineKeyboardButton
		for _, btn := range row {
			switch {
			case btn.URL != "":
				line = append(line, URLButton(btn.Text, btn.URL))
			case btn.Action != nil:
				line = append(line, InlineButton(btn.Text, btn.Action.Data()))
			}
		}
		if len(line) > 0 {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return InlineKeyboard(out...)
}
