package handler

import (
	"context"

	"memebot/internal/domain"
	"memebot/internal/middleware"
	"memebot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Conversation is the dialog engine the handlers feed
type Conversation interface {
	Handle(ctx context.Context, ev domain.Event, r service.Responder) (domain.State, error)
	Reset(userID int64)
}

// Handler manages all bot interactions
type Handler struct {
	ctx          context.Context
	bot          *tele.Bot
	conversation Conversation
	serializer   *middleware.Serializer
	logger       *zap.Logger
}

// NewHandler creates a new handler instance. ctx bounds every fetch made
// while handling updates.
func NewHandler(
	ctx context.Context,
	bot *tele.Bot,
	conversation Conversation,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		ctx:          ctx,
		bot:          bot,
		conversation: conversation,
		serializer:   middleware.NewSerializer(),
		logger:       logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Middleware must be installed before the handlers it wraps
	h.bot.Use(
		middleware.Serialize(h.serializer),
		middleware.Boundary(h.conversation, h.logger),
		middleware.Logging(h.logger),
	)

	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/cancel", h.handleCancel)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnPick, h.handleCallback)
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// Wait blocks until every accepted update has been handled
func (h *Handler) Wait() {
	h.serializer.Wait()
}

// dispatch feeds one event to the conversation engine
func (h *Handler) dispatch(c tele.Context, kind domain.EventKind, payload string) error {
	eventID, _ := c.Get(middleware.EventIDKey).(string)
	ev := domain.Event{
		ID:      eventID,
		UserID:  c.Sender().ID,
		Kind:    kind,
		Payload: payload,
	}

	state, err := h.conversation.Handle(h.ctx, ev, &responder{c: c, logger: h.logger})
	if err != nil {
		return err
	}

	h.logger.Debug("Event handled",
		zap.String("event_id", ev.ID),
		zap.Int64("user_id", ev.UserID),
		zap.Stringer("event", kind),
		zap.String("state", string(state)),
	)
	return nil
}

// Inline keyboard buttons. Every choice shares one unique id; the choice
// itself travels in the callback data.
var btnPick = tele.Btn{Unique: "pick"}

// choicesMarkup returns one button per row
func choicesMarkup(choices []domain.Choice) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, markup.Row(markup.Data(choice.Label, btnPick.Unique, choice.Value)))
	}
	markup.Inline(rows...)
	return markup
}
