package audit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRunInProgress is returned when an audit is requested while another
// one is still running.
var ErrRunInProgress = errors.New("audit run already in progress")

// Service serializes on-demand audit runs. The API trigger endpoint and
// the cron schedule both go through it so two runs never overlap.
type Service struct {
	auditor *Auditor

	mu      sync.Mutex
	running bool

	resultMu   sync.RWMutex
	lastResult *Result
	lastRun    time.Time
}

// NewService wraps an auditor for concurrent callers.
func NewService(auditor *Auditor) *Service {
	return &Service{auditor: auditor}
}

// Run executes one audit if none is in flight, returning
// ErrRunInProgress otherwise.
func (s *Service) Run(ctx context.Context, opts Options) (*Result, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	result, err := s.auditor.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	s.resultMu.Lock()
	s.lastResult = result
	s.lastRun = time.Now()
	s.resultMu.Unlock()

	return result, nil
}

// LastResult returns the most recent successful run, or nil if none has
// completed yet.
func (s *Service) LastResult() (*Result, time.Time) {
	s.resultMu.RLock()
	defer s.resultMu.RUnlock()
	return s.lastResult, s.lastRun
}

// Running reports whether an audit is currently in flight.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
