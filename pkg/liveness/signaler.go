// Package liveness keeps long-running input processing visible to the outside
// world. While a file is being extracted and transformed the task emits
// periodic progress signals so supervisors do not mistake a slow input for a
// hung worker.
package liveness

import (
	"context"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
)

// DefaultInterval is the default delay between progress signals.
const DefaultInterval = 60 * time.Second

// ProgressReporter receives each progress signal. Implementations report to
// whatever supervises the task: a Redis key, a framework callback, a counter.
type ProgressReporter interface {
	Progress(ctx context.Context) error
}

// ProgressFunc adapts a function to the ProgressReporter interface.
type ProgressFunc func(ctx context.Context) error

func (f ProgressFunc) Progress(ctx context.Context) error {
	return f(ctx)
}

// Signaler emits progress signals on an interval while an input is being
// processed. It is restartable: the task starts it before each input and
// stops it after, and start/stop calls always pair up even on error paths.
type Signaler struct {
	reporter ProgressReporter
	interval time.Duration
	logger   ectologger.Logger

	stopCh   chan struct{}
	stoppedC chan struct{}
	running  bool
	mu       sync.Mutex
}

// NewSignaler creates a signaler. A non-positive interval falls back to
// DefaultInterval.
func NewSignaler(reporter ProgressReporter, interval time.Duration, logger ectologger.Logger) *Signaler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Signaler{
		reporter: reporter,
		interval: interval,
		logger:   logger,
	}
}

// StartSignaling begins emitting progress signals. Starting an already
// running signaler is a no-op.
func (s *Signaler) StartSignaling(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.stoppedC = make(chan struct{})

	go s.signalLoop(ctx, s.stopCh, s.stoppedC)
}

// StopSignaling stops the signal loop and waits for it to exit. Stopping a
// signaler that is not running is a no-op.
func (s *Signaler) StopSignaling(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopCh, stoppedC := s.stopCh, s.stoppedC
	s.mu.Unlock()

	close(stopCh)

	select {
	case <-stoppedC:
	case <-ctx.Done():
		s.logger.WithContext(ctx).Warn("Liveness signaler shutdown timed out")
	}
}

// IsSignaling returns whether the signal loop is running.
func (s *Signaler) IsSignaling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Signaler) signalLoop(ctx context.Context, stopCh, stoppedC chan struct{}) {
	defer close(stoppedC)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Signal immediately on start
	s.signal(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.signal(ctx)
		}
	}
}

// signal reports progress once. Reporter failures are logged and swallowed;
// a broken supervisor link must not fail the input being processed.
func (s *Signaler) signal(ctx context.Context) {
	if err := s.reporter.Progress(ctx); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to report progress")
	}
}
