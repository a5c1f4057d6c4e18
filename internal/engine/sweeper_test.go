package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// turnRecorder collects onTurn invocations for assertions.
type turnRecorder struct {
	mu    sync.Mutex
	calls []turnCall
}

type turnCall struct {
	hostelID string
	groupID  string
	hasNext  bool
}

func (r *turnRecorder) fn(hostelID string, next Group, hasNext bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, turnCall{hostelID: hostelID, groupID: next.ID, hasNext: hasNext})
}

func (r *turnRecorder) snapshot() []turnCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]turnCall, len(r.calls))
	copy(out, r.calls)
	return out
}

func TestSweeper_ExpiresTurnsUntilQueueDrains(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(clock.Now)
	rec := &turnRecorder{}
	window := 300 * time.Second

	m.Initialise("h1", []Group{groupOf("g1", "a"), groupOf("g2", "b")})

	s := NewSweeper(m, 5*time.Millisecond, window, rec.fn)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	// First expiry drops g1 and starts g2's turn.
	clock.Advance(window + time.Second)
	require.Eventually(t, func() bool {
		head, ok := m.Current("h1")
		return ok && head.Group.ID == "g2"
	}, time.Second, time.Millisecond)

	// Second expiry drains the queue; the sweeper then stops itself.
	clock.Advance(window + time.Second)
	require.Eventually(t, func() bool {
		return len(m.ActiveHostels()) == 0
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		return !s.Running()
	}, time.Second, time.Millisecond)

	calls := rec.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, turnCall{hostelID: "h1", groupID: "g2", hasNext: true}, calls[0])
	assert.Equal(t, turnCall{hostelID: "h1", hasNext: false}, calls[1])
}

func TestSweeper_DoesNotExpireWithinWindow(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(clock.Now)
	window := 300 * time.Second

	m.Initialise("h1", []Group{groupOf("g1", "a")})

	s := NewSweeper(m, time.Millisecond, window, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	clock.Advance(window - time.Second)
	time.Sleep(20 * time.Millisecond)

	head, ok := m.Current("h1")
	require.True(t, ok)
	assert.Equal(t, "g1", head.Group.ID)
}

func TestSweeper_StartIsIdempotentAndRestartable(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(clock.Now)
	window := 300 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Initialise("h1", []Group{groupOf("g1", "a")})

	s := NewSweeper(m, time.Millisecond, window, nil)
	s.Start(ctx)
	s.Start(ctx) // no-op while running
	assert.True(t, s.Running())

	// Drain the queue so the loop stops itself.
	clock.Advance(window + time.Second)
	require.Eventually(t, func() bool {
		return !s.Running()
	}, time.Second, time.Millisecond)

	// A fresh queue and a new start command bring the loop back.
	m.Initialise("h2", []Group{groupOf("g2", "b")})
	s.Start(ctx)
	assert.True(t, s.Running())

	clock.Advance(window + time.Second)
	require.Eventually(t, func() bool {
		return len(m.ActiveHostels()) == 0 && !s.Running()
	}, time.Second, time.Millisecond)
}

func TestSweeper_StopsOnContextCancel(t *testing.T) {
	m := NewManager(nil)
	m.Initialise("h1", []Group{groupOf("g1", "a")})

	s := NewSweeper(m, time.Millisecond, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	require.Eventually(t, func() bool {
		return !s.Running()
	}, time.Second, time.Millisecond)
}
