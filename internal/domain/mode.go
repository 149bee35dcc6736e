package domain

import (
	"fmt"
	"strings"
)

// Mode is what the user asked the bot to produce
type Mode string

const (
	ModeEdit   Mode = "edit"
	ModeRandom Mode = "random"
	ModeVideo  Mode = "video"
)

// Modes lists the modes in the order they are offered
var Modes = []Mode{ModeEdit, ModeRandom, ModeVideo}

// ParseMode decodes a button payload into a Mode
func ParseMode(payload string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(payload))); m {
	case ModeEdit, ModeRandom, ModeVideo:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, payload)
}

// Label returns the button text for the mode
func (m Mode) Label() string {
	switch m {
	case ModeEdit:
		return "Edit Meme ✏️"
	case ModeRandom:
		return "Random Meme 🎲"
	case ModeVideo:
		return "Video Meme 🎥"
	}
	return string(m)
}
