package prices

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs fn immediately and then once per interval until stopped.
// Errors from fn go to onErr and never end the loop.
type Scheduler struct {
	interval time.Duration
	fn       func(context.Context) error
	onErr    func(error)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(interval time.Duration, fn func(context.Context) error) *Scheduler {
	return &Scheduler{interval: interval, fn: fn}
}

func (s *Scheduler) OnError(fn func(error)) *Scheduler {
	s.onErr = fn
	return s
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.fn(ctx); err != nil && s.onErr != nil && ctx.Err() == nil {
		s.onErr(err)
	}
}

// Start runs the loop in a goroutine. A second Start before Stop is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		_ = s.Run(runCtx)
	}()
}

// Stop cancels the loop and waits for the in-flight tick to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
