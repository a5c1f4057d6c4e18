package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAllotmentStore records AllotRoom calls and serves canned availability.
type fakeAllotmentStore struct {
	mu       sync.Mutex
	allotted map[string]bool // hostelID+"/"+roomID
	commits  [][]string
	checkErr error
	allotErr error
}

func newFakeAllotmentStore() *fakeAllotmentStore {
	return &fakeAllotmentStore{allotted: make(map[string]bool)}
}

func (f *fakeAllotmentStore) RoomAllotted(_ context.Context, hostelID, roomID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.allotted[hostelID+"/"+roomID], nil
}

func (f *fakeAllotmentStore) AllotRoom(_ context.Context, hostelID, roomID string, studentIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.allotErr != nil {
		return f.allotErr
	}
	f.allotted[hostelID+"/"+roomID] = true
	f.commits = append(f.commits, studentIDs)
	return nil
}

func (f *fakeAllotmentStore) commitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.commits)
}

// hookClient returns a client whose sends land in the returned slice.
func hookClient(t *testing.T, userID string) (*Client, *[]Frame) {
	t.Helper()
	var mu sync.Mutex
	frames := &[]Frame{}
	c := NewClient(userID, nil)
	c.SetSendHook(func(f Frame) {
		mu.Lock()
		*frames = append(*frames, f)
		mu.Unlock()
	})
	return c, frames
}

func newTestService(m *Manager, fs *fakeAllotmentStore, hub *Hub, policy Policy, onTurn TurnFunc) *Service {
	return NewService(m, fs, hub, 300*time.Second, policy, onTurn)
}

func TestService_SelectRoomCommitsAndAdvances(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(clock.Now)
	fs := newFakeAllotmentStore()
	hub := NewHub()
	rec := &turnRecorder{}
	svc := newTestService(m, fs, hub, PolicyAnyMember, rec.fn)

	m.Initialise("h1", []Group{groupOf("g1", "a", "b"), groupOf("g2", "c")})

	viewer, frames := hookClient(t, "spectator")
	hub.Subscribe("h1", viewer)

	upd, err := svc.SelectRoom(context.Background(), "h1", "r7", "b")
	require.NoError(t, err)
	assert.Equal(t, Update{HostelID: "h1", RoomID: "r7", GroupID: "g1"}, upd)

	// One transactional commit covering every member of the head group.
	require.Len(t, fs.commits, 1)
	assert.Equal(t, []string{"a", "b"}, fs.commits[0])

	// Exactly one advance: g2 now holds the turn with a fresh window.
	head, ok := m.Current("h1")
	require.True(t, ok)
	assert.Equal(t, "g2", head.Group.ID)
	assert.Equal(t, clock.Now(), head.StartedAt)

	// Viewers heard about the committed selection.
	require.Len(t, *frames, 1)
	assert.Equal(t, Frame{Type: "update", HostelID: "h1", RoomID: "r7", GroupID: "g1"}, (*frames)[0])

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, turnCall{hostelID: "h1", groupID: "g2", hasNext: true}, calls[0])
}

func TestService_SelectRoomDrainsQueue(t *testing.T) {
	m := NewManager(nil)
	fs := newFakeAllotmentStore()
	rec := &turnRecorder{}
	svc := newTestService(m, fs, NewHub(), PolicyAnyMember, rec.fn)

	m.Initialise("h1", []Group{groupOf("g1", "a")})

	_, err := svc.SelectRoom(context.Background(), "h1", "r1", "a")
	require.NoError(t, err)

	assert.Empty(t, m.ActiveHostels())
	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].hasNext)
}

func TestService_RejectsUnknownQueue(t *testing.T) {
	m := NewManager(nil)
	fs := newFakeAllotmentStore()
	svc := newTestService(m, fs, NewHub(), PolicyAnyMember, nil)

	_, err := svc.SelectRoom(context.Background(), "nope", "r1", "a")
	assert.ErrorIs(t, err, ErrQueueNotFound)
	assert.Zero(t, fs.commitCount())
}

func TestService_RejectsExpiredTurnWithoutAdvancing(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(clock.Now)
	fs := newFakeAllotmentStore()
	svc := newTestService(m, fs, NewHub(), PolicyAnyMember, nil)

	m.Initialise("h1", []Group{groupOf("g1", "a"), groupOf("g2", "b")})
	clock.Advance(301 * time.Second)

	_, err := svc.SelectRoom(context.Background(), "h1", "r1", "a")
	assert.ErrorIs(t, err, ErrTurnExpired)
	assert.Zero(t, fs.commitCount())

	// The expired head is left in place for the sweeper to collect.
	head, ok := m.Current("h1")
	require.True(t, ok)
	assert.Equal(t, "g1", head.Group.ID)
}

func TestService_RejectsNonMember(t *testing.T) {
	m := NewManager(nil)
	fs := newFakeAllotmentStore()
	svc := newTestService(m, fs, NewHub(), PolicyAnyMember, nil)

	m.Initialise("h1", []Group{groupOf("g1", "a"), groupOf("g2", "b")})

	// b belongs to g2, not to the head group.
	_, err := svc.SelectRoom(context.Background(), "h1", "r1", "b")
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.Zero(t, fs.commitCount())
}

func TestService_AdminOnlyPolicy(t *testing.T) {
	m := NewManager(nil)
	fs := newFakeAllotmentStore()
	svc := newTestService(m, fs, NewHub(), PolicyAdminOnly, nil)

	// groupOf marks the first member as group admin.
	m.Initialise("h1", []Group{groupOf("g1", "a", "b")})

	_, err := svc.SelectRoom(context.Background(), "h1", "r1", "b")
	assert.ErrorIs(t, err, ErrNotEligible)

	_, err = svc.SelectRoom(context.Background(), "h1", "r1", "a")
	assert.NoError(t, err)
}

func TestService_RejectsAllottedRoom(t *testing.T) {
	m := NewManager(nil)
	fs := newFakeAllotmentStore()
	fs.allotted["h1/r1"] = true
	svc := newTestService(m, fs, NewHub(), PolicyAnyMember, nil)

	m.Initialise("h1", []Group{groupOf("g1", "a"), groupOf("g2", "b")})

	_, err := svc.SelectRoom(context.Background(), "h1", "r1", "a")
	assert.ErrorIs(t, err, ErrRoomAllotted)
	assert.Zero(t, fs.commitCount())

	// The turn survives a bad pick; the group may try another room.
	head, ok := m.Current("h1")
	require.True(t, ok)
	assert.Equal(t, "g1", head.Group.ID)
}

func TestService_StoreFailureLeavesQueueUntouched(t *testing.T) {
	m := NewManager(nil)
	fs := newFakeAllotmentStore()
	fs.allotErr = errors.New("db down")
	svc := newTestService(m, fs, NewHub(), PolicyAnyMember, nil)

	m.Initialise("h1", []Group{groupOf("g1", "a")})

	_, err := svc.SelectRoom(context.Background(), "h1", "r1", "a")
	require.Error(t, err)

	head, ok := m.Current("h1")
	require.True(t, ok)
	assert.Equal(t, "g1", head.Group.ID)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("any-member")
	require.NoError(t, err)
	assert.Equal(t, PolicyAnyMember, p)

	p, err = ParsePolicy("admin-only")
	require.NoError(t, err)
	assert.Equal(t, PolicyAdminOnly, p)

	_, err = ParsePolicy("whoever")
	assert.Error(t, err)
}
