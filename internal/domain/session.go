package domain

import (
	"fmt"
	"time"
)

// State represents user's current position in the dialog
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingMode       State = "awaiting_mode"
	StateAwaitingCategory   State = "awaiting_category"
	StateAwaitingTopText    State = "awaiting_top_text"
	StateAwaitingBottomText State = "awaiting_bottom_text"
	StateDone               State = "done"
	StateCancelled          State = "cancelled"
)

// Terminal reports whether reaching s ends the dialog
func (s State) Terminal() bool {
	return s == StateDone || s == StateCancelled
}

// MaxTextLength is the caption text limit, in characters
const MaxTextLength = 50

// Session holds temporary data for user's current dialog
type Session struct {
	UserID    int64
	State     State
	Mode      Mode
	Category  string
	TopText   string
	UpdatedAt time.Time
}

// NewSession returns a fresh session waiting for a mode
func NewSession(userID int64) *Session {
	return &Session{
		UserID:    userID,
		State:     StateAwaitingMode,
		UpdatedAt: time.Now(),
	}
}

// Advance moves the session to next, rejecting any step outside the
// ordered sequence for the session's mode. Cancellation is always allowed.
func (s *Session) Advance(next State) error {
	if next == StateCancelled || s.allowed(next) {
		s.State = next
		s.UpdatedAt = time.Now()
		return nil
	}
	return fmt.Errorf("%w: %s -> %s (mode %q)", ErrInvalidTransition, s.State, next, s.Mode)
}

func (s *Session) allowed(next State) bool {
	switch s.State {
	case StateAwaitingMode:
		return next == StateAwaitingCategory && s.Mode != ""
	case StateAwaitingCategory:
		if s.Category == "" {
			return false
		}
		if s.Mode == ModeEdit {
			return next == StateAwaitingTopText
		}
		return next == StateDone
	case StateAwaitingTopText:
		return next == StateAwaitingBottomText
	case StateAwaitingBottomText:
		return next == StateDone
	}
	return false
}

// Truncate cuts text to MaxTextLength characters
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxTextLength {
		return text
	}
	return string(runes[:MaxTextLength])
}
