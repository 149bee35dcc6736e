package middleware

import (
	"sync"

	tele "gopkg.in/telebot.v3"
)

// Serializer runs jobs one at a time per key, in submission order.
// Different keys run concurrently; a key's worker exits once its queue is empty.
type Serializer struct {
	mu     sync.Mutex
	queues map[int64][]func()
	wg     sync.WaitGroup
}

// NewSerializer creates an idle serializer
func NewSerializer() *Serializer {
	return &Serializer{queues: make(map[int64][]func())}
}

// Do queues fn behind every job already queued for key
func (s *Serializer) Do(key int64, fn func()) {
	s.mu.Lock()
	queue, running := s.queues[key]
	s.queues[key] = append(queue, fn)
	if !running {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	if !running {
		go s.drain(key)
	}
}

// Wait blocks until every queued job has finished
func (s *Serializer) Wait() {
	s.wg.Wait()
}

func (s *Serializer) drain(key int64) {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		queue := s.queues[key]
		if len(queue) == 0 {
			delete(s.queues, key)
			s.mu.Unlock()
			return
		}
		fn := queue[0]
		s.queues[key] = queue[1:]
		s.mu.Unlock()

		fn()
	}
}

// Serialize hands every update to s keyed by sender, so one user's updates
// are handled in arrival order. The bot must run with Synchronous set so
// that arrival order is the order Serialize sees.
func Serialize(s *Serializer) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}
			s.Do(sender.ID, func() {
				// errors are handled by the boundary further down the chain
				_ = next(c)
			})
			return nil
		}
	}
}
