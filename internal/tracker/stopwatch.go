package tracker

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrEmptyTaskName = errors.New("task name is required")

// Stopwatch times the task currently being worked on.
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	running bool
	started time.Time
	elapsed int64
}

func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now}
}

// Start begins timing, resuming from any elapsed time a previous Stop left
// behind. A blank name is refused.
func (s *Stopwatch) Start(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyTaskName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	s.running = true
	s.started = s.now().Add(-time.Duration(s.elapsed) * time.Second)
	return nil
}

// Stop halts the clock and records the time under name, the task name as it
// reads when the clock stops. With a blank name or no whole second on the
// clock nothing is recorded and the elapsed time is kept for the next Start.
func (s *Stopwatch) Stop(name string) (Task, bool) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return Task{}, false
	}
	s.elapsed = s.elapsedLocked()
	s.running = false

	if name == "" || s.elapsed <= 0 {
		return Task{}, false
	}

	task := NewTask(name, s.elapsed, s.now())
	s.elapsed = 0
	return task, true
}

func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Elapsed reports whole seconds on the clock.
func (s *Stopwatch) Elapsed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Stopwatch) elapsedLocked() int64 {
	if !s.running {
		return s.elapsed
	}
	return int64(s.now().Sub(s.started) / time.Second)
}
