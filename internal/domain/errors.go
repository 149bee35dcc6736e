package domain

import "errors"

var (
	ErrInvalidCategory   = errors.New("invalid category")
	ErrNotFound          = errors.New("no matching content")
	ErrUnknownMode       = errors.New("unknown mode")
	ErrInvalidTransition = errors.New("invalid state transition")
)
