package engine

import (
	"sync"
	"time"
)

// Group is the in-memory view of a group waiting in a hostel queue, as
// supplied by the initialise command.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

// Member is one student inside a queued group.
type Member struct {
	StudentID    string `json:"studentId"`
	IsGroupAdmin bool   `json:"isGroupAdmin"`
}

// MemberIDs returns the student ids of the group in insertion order.
func (g Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.StudentID
	}
	return ids
}

// QueueEntry pairs a queued group with the time its selection turn started.
// Only the head entry of an active queue carries a non-zero StartedAt.
type QueueEntry struct {
	Group     Group
	StartedAt time.Time
}

// Manager owns every hostel's pending-group queue. The map is guarded by the
// manager mutex; each queue has its own mutex so hostels never serialize
// against each other. Lock order is always manager before queue.
type Manager struct {
	mu     sync.Mutex
	queues map[string]*queue
	clock  func() time.Time
}

type queue struct {
	mu      sync.Mutex
	entries []QueueEntry
}

// NewManager creates an empty queue manager. A nil clock defaults to
// time.Now; tests inject their own.
func NewManager(clock func() time.Time) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		queues: make(map[string]*queue),
		clock:  clock,
	}
}

// Initialise replaces any existing queue for the hostel with the given
// ordered groups and stamps the first entry's turn start. An empty group
// list clears the hostel's queue.
func (m *Manager) Initialise(hostelID string, groups []Group) {
	entries := make([]QueueEntry, len(groups))
	for i, g := range groups {
		entries[i] = QueueEntry{Group: g}
	}
	if len(entries) > 0 {
		entries[0].StartedAt = m.clock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(entries) == 0 {
		delete(m.queues, hostelID)
		return
	}
	m.queues[hostelID] = &queue{entries: entries}
}

// Current returns the head entry of the hostel's queue, if any.
func (m *Manager) Current(hostelID string) (QueueEntry, bool) {
	q, ok := m.lookup(hostelID)
	if !ok {
		return QueueEntry{}, false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return QueueEntry{}, false
	}
	return q.entries[0], true
}

// Advance drops the head entry and stamps the new head's turn start. A
// hostel whose queue drains is removed from the active set entirely.
func (m *Manager) Advance(hostelID string) (QueueEntry, bool) {
	q, ok := m.lookup(hostelID)
	if !ok {
		return QueueEntry{}, false
	}
	q.mu.Lock()
	next, hasNext := q.advanceLocked(m.clock())
	drained := len(q.entries) == 0
	q.mu.Unlock()

	if drained {
		m.removeIfEmpty(hostelID)
	}
	return next, hasNext
}

// AdvanceIfExpired drops the head only when its turn window has elapsed.
// The check and the advance happen under the queue lock so a concurrent
// selection can never commit against an already-expired turn.
func (m *Manager) AdvanceIfExpired(hostelID string, window time.Duration) (next QueueEntry, hasNext, expired bool) {
	q, ok := m.lookup(hostelID)
	if !ok {
		return QueueEntry{}, false, false
	}
	now := m.clock()

	q.mu.Lock()
	if len(q.entries) == 0 || now.Sub(q.entries[0].StartedAt) <= window {
		q.mu.Unlock()
		return QueueEntry{}, false, false
	}
	next, hasNext = q.advanceLocked(now)
	drained := len(q.entries) == 0
	q.mu.Unlock()

	if drained {
		m.removeIfEmpty(hostelID)
	}
	return next, hasNext, true
}

// Stop unconditionally removes the hostel's queue.
func (m *Manager) Stop(hostelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.queues, hostelID)
}

// ActiveHostels lists the hostels that still have a queue.
func (m *Manager) ActiveHostels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	hostels := make([]string, 0, len(m.queues))
	for id := range m.queues {
		hostels = append(hostels, id)
	}
	return hostels
}

func (m *Manager) lookup(hostelID string) (*queue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[hostelID]
	return q, ok
}

// removeIfEmpty deletes a drained queue from the map, re-checking emptiness
// under both locks in manager-then-queue order.
func (m *Manager) removeIfEmpty(hostelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[hostelID]
	if !ok {
		return
	}
	q.mu.Lock()
	empty := len(q.entries) == 0
	q.mu.Unlock()
	if empty {
		delete(m.queues, hostelID)
	}
}

// advanceLocked drops the head and stamps the successor. Callers hold q.mu.
func (q *queue) advanceLocked(now time.Time) (QueueEntry, bool) {
	if len(q.entries) == 0 {
		return QueueEntry{}, false
	}
	q.entries = q.entries[1:]
	if len(q.entries) == 0 {
		return QueueEntry{}, false
	}
	q.entries[0].StartedAt = now
	return q.entries[0], true
}
