package middleware

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Logging logs update processing time
func Logging(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()

			updateType := "unknown"
			switch {
			case c.Callback() != nil:
				updateType = "callback_query"
			case c.Message() != nil:
				updateType = "message"
			}

			var userID int64
			if sender := c.Sender(); sender != nil {
				userID = sender.ID
			}

			err := next(c)

			eventID, _ := c.Get(EventIDKey).(string)
			logger.Debug("Update processed",
				zap.String("type", updateType),
				zap.Int64("user_id", userID),
				zap.String("event_id", eventID),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		}
	}
}
