package handler

import (
	"context"
	"errors"
	"strings"

	"memebot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var errNotCallback = errors.New("no callback message to edit")

// responder implements service.Responder for one telebot update
type responder struct {
	c      tele.Context
	logger *zap.Logger
}

func (r *responder) SendText(_ context.Context, text string) error {
	return r.c.Send(text)
}

func (r *responder) SendChoices(_ context.Context, text string, choices []domain.Choice) error {
	return r.c.Send(text, choicesMarkup(choices))
}

func (r *responder) SendImage(_ context.Context, url, caption string) error {
	return r.c.Send(&tele.Photo{File: tele.FromURL(url), Caption: caption})
}

func (r *responder) SendVideo(_ context.Context, url, caption string) error {
	return r.c.Send(&tele.Video{File: tele.FromURL(url), Caption: caption})
}

// EditText edits the message carrying the pressed button. A message that
// already shows text counts as edited.
func (r *responder) EditText(_ context.Context, text string) error {
	if r.c.Callback() == nil || r.c.Callback().Message == nil {
		return errNotCallback
	}

	err := r.c.Edit(text)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		r.logger.Debug("Message already modified",
			zap.String("callback_id", r.c.Callback().ID),
		)
		return nil
	}
	return err
}
