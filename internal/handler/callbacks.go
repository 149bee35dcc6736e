package handler

import (
	"strings"
	"unicode"

	"memebot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// decodeCallback returns the button id and payload of a callback. Telebot
// splits "\f<unique>|<data>" itself unless the payload carries characters its
// pattern rejects, such as a newline; those arrive raw and are split here.
func decodeCallback(callback *tele.Callback) (unique, data string) {
	if callback.Unique != "" {
		return callback.Unique, cleanCallbackData(callback.Data)
	}

	raw := cleanCallbackData(callback.Data)
	if strings.HasPrefix(callback.Data, "\f") {
		if id, payload, ok := strings.Cut(raw, "|"); ok && id != "" {
			return id, strings.TrimSpace(payload)
		}
	}
	return "", raw
}

// handleCallback handles presses of mode and category buttons
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil || c.Sender() == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	unique, data := decodeCallback(callback)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.String("unique", unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Acknowledge first so the client stops showing progress
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}

	if unique != btnPick.Unique || data == "" {
		h.logger.Warn("Unhandled callback",
			zap.String("data", data),
			zap.String("unique", unique),
		)
		return nil
	}

	return h.dispatch(c, domain.EventSelect, data)
}
