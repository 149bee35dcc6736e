package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// GenericApology is sent when handling an update fails unexpectedly
const GenericApology = "⚠️ An error occurred. Please try again!"

// EventIDKey is the context key holding the update's correlation id
const EventIDKey = "event_id"

// Resetter ends a user's dialog
type Resetter interface {
	Reset(userID int64)
}

// Boundary catches errors and panics from next: it logs them, ends the
// sender's dialog and apologises. Nothing is propagated to the bot.
func Boundary(resetter Resetter, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			eventID := uuid.NewString()
			c.Set(EventIDKey, eventID)

			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("panic: %v", p)
					logger.Error("Panic while handling update",
						zap.String("event_id", eventID),
						zap.Any("panic", p),
						zap.String("stack", string(debug.Stack())),
					)
				}
				if err == nil {
					return
				}

				var userID int64
				if sender := c.Sender(); sender != nil {
					userID = sender.ID
					resetter.Reset(userID)
				}

				logger.Error("Exception while handling update",
					zap.String("event_id", eventID),
					zap.Int64("user_id", userID),
					zap.Error(err),
				)

				if sendErr := c.Send(GenericApology); sendErr != nil {
					logger.Warn("Failed to send apology",
						zap.String("event_id", eventID),
						zap.Error(sendErr),
					)
				}
				err = nil
			}()

			return next(c)
		}
	}
}
