package handler

import (
	"strings"

	"memebot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages that are not commands
func (h *Handler) handleText(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}

	text := c.Text()

	// Ignore unknown commands (starting with /)
	if strings.HasPrefix(strings.TrimSpace(text), "/") {
		return nil
	}

	return h.dispatch(c, domain.EventText, text)
}
