package engine

import (
	"context"
	"log"
	"sync"
	"time"
)

// TurnFunc is invoked after a queue advances. hasNext is false when the
// queue drained.
type TurnFunc func(hostelID string, next Group, hasNext bool)

// Sweeper periodically expires stale turns and advances the affected queues.
// It stops itself once no hostel has an active queue and is lazily restarted
// by the start command, so no ticker runs while nothing is being allotted.
// Expiry is best-effort: a turn ends within one sweep interval of its window
// elapsing, not at the exact instant.
type Sweeper struct {
	queues   *Manager
	interval time.Duration
	window   time.Duration
	onTurn   TurnFunc

	mu      sync.Mutex
	running bool
}

func NewSweeper(queues *Manager, interval, window time.Duration, onTurn TurnFunc) *Sweeper {
	return &Sweeper{
		queues:   queues,
		interval: interval,
		window:   window,
		onTurn:   onTurn,
	}
}

// Start launches the sweep loop unless one is already running. Safe to call
// from any connection handler.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.run(ctx)
}

// Running reports whether the sweep loop is active.
func (s *Sweeper) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return
		case <-ticker.C:
			s.sweep()
			// Re-check the active set under the start mutex so a
			// concurrent Start cannot observe a running sweeper
			// that is about to exit.
			s.mu.Lock()
			if len(s.queues.ActiveHostels()) == 0 {
				s.running = false
				s.mu.Unlock()
				log.Printf("sweeper: no active queues, stopping")
				return
			}
			s.mu.Unlock()
		}
	}
}

func (s *Sweeper) sweep() {
	for _, hostelID := range s.queues.ActiveHostels() {
		next, hasNext, expired := s.queues.AdvanceIfExpired(hostelID, s.window)
		if !expired {
			continue
		}
		log.Printf("sweeper: turn expired for hostel %s", hostelID)
		if s.onTurn != nil {
			s.onTurn(hostelID, next.Group, hasNext)
		}
	}
}
