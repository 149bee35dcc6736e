// Package runner keeps the bot connected to its event source, reconnecting
// after every failure until the context is cancelled.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

// Connection is one live session with the event source. Run blocks until the
// connection fails or ctx is cancelled.
type Connection interface {
	Run(ctx context.Context) error
}

// Dialer opens a new connection
type Dialer func(ctx context.Context) (Connection, error)

// ErrDisconnected is reported when a connection ends without an error while
// the runner is still supposed to be running
var ErrDisconnected = errors.New("connection closed")

// Runner supervises connections
type Runner struct {
	dial   Dialer
	delay  time.Duration
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a runner that waits delay between attempts
func New(dial Dialer, delay time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		dial:   dial,
		delay:  delay,
		logger: logger,
		sleep:  sleepContext,
	}
}

// Run dials and serves connections until ctx is done. It only returns
// ctx's error.
func (r *Runner) Run(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		err := r.serve(ctx)
		if ctx.Err() != nil {
			r.logger.Info("Runner stopped", zap.Int("attempts", attempt))
			return ctx.Err()
		}

		r.logger.Error("Bot crashed, reconnecting",
			zap.Int("attempt", attempt),
			zap.Duration("delay", r.delay),
			zap.Error(err),
		)

		if err := r.sleep(ctx, r.delay); err != nil {
			r.logger.Info("Runner stopped", zap.Int("attempts", attempt))
			return err
		}
	}
}

// serve runs a single connection, turning panics into errors
func (r *Runner) serve(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Panic in connection",
				zap.Any("panic", p),
				zap.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	conn, err := r.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	r.logger.Info("Bot started and polling")

	if err := conn.Run(ctx); err != nil {
		return err
	}
	return ErrDisconnected
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
