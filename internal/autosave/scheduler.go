// Package autosave debounces save requests: edits arrive in bursts,
// and only the trailing edge of a burst triggers a save.
package autosave

import (
	"context"
	"sync"
	"time"
)

// Saver is the save path the scheduler fires. state.Store's AutoSave
// satisfies it.
type Saver interface {
	AutoSave(ctx context.Context)
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context)

// AutoSave implements Saver.
func (f SaverFunc) AutoSave(ctx context.Context) { f(ctx) }

// Scheduler coalesces Notify calls: each call restarts the timer, and
// the save runs once the interval passes without another call. Safe
// for concurrent use.
type Scheduler struct {
	saver    Saver
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New builds a scheduler that fires saver after interval of quiet.
func New(saver Saver, interval time.Duration) *Scheduler {
	return &Scheduler{saver: saver, interval: interval}
}

// Notify records an edit. The pending save, if any, is pushed back by
// a full interval. After Stop, Notify is a no-op.
func (s *Scheduler) Notify(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		stopped := s.stopped
		s.mu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		s.saver.AutoSave(ctx)
	})
}

// Stop cancels any pending save without flushing it. Unsaved edits
// stay dirty in the session and are recovered as a draft or on the
// next manual save.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
