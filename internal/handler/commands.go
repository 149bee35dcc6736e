package handler

import (
	"memebot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}

	h.logger.Info("User started bot",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("username", c.Sender().Username),
	)

	return h.dispatch(c, domain.EventStart, "")
}

// handleCancel handles /cancel command
func (h *Handler) handleCancel(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	return h.dispatch(c, domain.EventCancel, "")
}
