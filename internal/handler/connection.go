package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"memebot/internal/runner"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// DialConfig holds the Bot API connection settings
type DialConfig struct {
	Token       string
	URL         string
	PollTimeout time.Duration
}

// Connection is one polling session with the Bot API
type Connection struct {
	bot     *tele.Bot
	handler *Handler
	faults  chan error
	started chan struct{}
	logger  *zap.Logger
}

// NewDialer returns a runner.Dialer creating a fresh bot, handlers and
// poller for every connection attempt. The update offset is shared by all
// attempts so a new connection resumes after the last delivered update.
func NewDialer(cfg DialConfig, conversation Conversation, logger *zap.Logger) runner.Dialer {
	offset := new(atomic.Int64)

	return func(ctx context.Context) (runner.Connection, error) {
		faults := make(chan error, 1)
		started := make(chan struct{})

		bot, err := tele.NewBot(tele.Settings{
			Token: cfg.Token,
			URL:   cfg.URL,
			Poller: &faultPoller{
				timeout: cfg.PollTimeout,
				offset:  offset,
				faults:  faults,
				started: started,
			},
			Synchronous: true,
			OnError: func(err error, c tele.Context) {
				logger.Error("Telegram error", zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("create bot: %w", err)
		}

		h := NewHandler(ctx, bot, conversation, logger)
		h.RegisterHandlers()

		return &Connection{bot: bot, handler: h, faults: faults, started: started, logger: logger}, nil
	}
}

// Run polls until ctx is cancelled or polling fails, then waits for the
// updates already accepted to finish
func (c *Connection) Run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.bot.Start()
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-c.faults:
		c.logger.Warn("Polling failed", zap.Error(err))
	}

	// Stop must not race with Start setting up the poller
	<-c.started
	c.bot.Stop()
	<-done
	c.handler.Wait()
	return err
}

// faultPoller long-polls getUpdates and stops at the first failed request,
// reporting it so the connection can be replaced
type faultPoller struct {
	timeout time.Duration
	offset  *atomic.Int64
	faults  chan<- error
	started chan<- struct{}
}

func (p *faultPoller) Poll(b *tele.Bot, dest chan tele.Update, stop chan struct{}) {
	close(p.started)

	for {
		select {
		case <-stop:
			return
		default:
		}

		updates, err := p.getUpdates(b, p.offset.Load())
		if err != nil {
			select {
			case p.faults <- err:
			default:
			}
			<-stop
			return
		}

		for _, u := range updates {
			select {
			case dest <- u:
			case <-stop:
				return
			}
			if next := int64(u.ID) + 1; next > p.offset.Load() {
				p.offset.Store(next)
			}
		}
	}
}

func (p *faultPoller) getUpdates(b *tele.Bot, offset int64) ([]tele.Update, error) {
	params := map[string]string{
		"offset":  strconv.FormatInt(offset, 10),
		"timeout": strconv.Itoa(int(p.timeout / time.Second)),
	}

	data, err := b.Raw("getUpdates", params)
	if err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}

	var resp struct {
		Result []tele.Update `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("getUpdates: parse response: %w", err)
	}
	return resp.Result, nil
}
