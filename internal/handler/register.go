package handler

import (
	"github.com/go-telegram/bot"
)

// Register registers all command, callback and text handlers on the bot
// instance. Commands go first: the catch-all text handler matches everything.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypePrefix, h.handleCancel)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/menu", bot.MatchTypePrefix, h.handleMenu)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/find", bot.MatchTypePrefix, h.handleFind)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, h.handleCallback)

	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, h.handleText)
}
