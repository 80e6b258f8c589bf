// Package scheduler calls the engine's compaction entry point on a fixed
// cadence, standing in for the periodic maintenance job a deployed daemon
// would run outside the request path.
package scheduler

import (
	"log"
	"time"
)

// Compactor is satisfied by engine.Engine directly, and by any wrapper a
// port adds to serialize compaction with concurrent request handling
// (the engine itself assumes a single caller).
type Compactor interface {
	Compaction() error
}

// Scheduler ticks Compactor.Compaction on Interval until Stop is called.
// Compaction errors are logged, not fatal - the engine itself stays usable
// across ticks (see the engine's error propagation policy).
type Scheduler struct {
	c        Compactor
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
}

// New returns a Scheduler bound to c. Start must be called to begin
// ticking.
func New(c Compactor, interval time.Duration) *Scheduler {
	return &Scheduler{c: c, interval: interval, done: make(chan struct{})}
}

// Start launches the background compaction loop. Calling Start on a
// Scheduler with a non-positive interval is a no-op - compaction stays
// disabled.
func (s *Scheduler) Start() {
	if s.interval <= 0 {
		return
	}
	s.ticker = time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-s.ticker.C:
				if err := s.c.Compaction(); err != nil {
					log.Printf("scheduler: compaction failed: %v", err)
				}
			case <-s.done:
				return
			}
		}
	}()
}

// Stop halts the loop. Safe to call even if Start was a no-op.
func (s *Scheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)
}
