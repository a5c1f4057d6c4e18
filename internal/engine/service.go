package engine

import (
	"context"
	"fmt"
	"time"
)

// Policy decides which member of the head group may act on its turn. The
// rule is deliberately a single explicit configuration knob rather than a
// hard-coded choice.
type Policy string

const (
	PolicyAnyMember Policy = "any-member"
	PolicyAdminOnly Policy = "admin-only"
)

// ParsePolicy validates a configured policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyAnyMember, PolicyAdminOnly:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown eligibility policy %q", s)
}

// Eligible reports whether the student may select a room for the group.
func (p Policy) Eligible(g Group, studentID string) bool {
	for _, m := range g.Members {
		if m.StudentID != studentID {
			continue
		}
		if p == PolicyAdminOnly {
			return m.IsGroupAdmin
		}
		return true
	}
	return false
}

// AllotmentStore is the slice of persistence the allocation service needs.
type AllotmentStore interface {
	// RoomAllotted reports whether the room already appears in the
	// hostel's allotted set.
	RoomAllotted(ctx context.Context, hostelID, roomID string) (bool, error)
	// AllotRoom writes one allotment row per student in a single
	// transaction; either all members are assigned or none are.
	AllotRoom(ctx context.Context, hostelID, roomID string, studentIDs []string) error
}

// Update describes a committed selection, broadcast to hostel viewers.
type Update struct {
	HostelID string
	RoomID   string
	GroupID  string
}

// Service validates room-selection attempts against turn eligibility and
// room availability, commits the assignment and advances the queue.
type Service struct {
	queues *Manager
	store  AllotmentStore
	hub    *Hub
	window time.Duration
	policy Policy
	onTurn TurnFunc
}

func NewService(queues *Manager, store AllotmentStore, hub *Hub, window time.Duration, policy Policy, onTurn TurnFunc) *Service {
	return &Service{
		queues: queues,
		store:  store,
		hub:    hub,
		window: window,
		policy: policy,
		onTurn: onTurn,
	}
}

// SelectRoom processes one room-selection attempt for the requester. The
// whole check-commit-advance sequence runs under the hostel's queue lock so
// it cannot interleave with the sweeper or another selection for the same
// hostel. Rejections never mutate state; an expired head is left for the
// sweeper to advance.
func (s *Service) SelectRoom(ctx context.Context, hostelID, roomID, requesterID string) (Update, error) {
	upd, next, hasNext, drained, err := s.selectLocked(ctx, hostelID, roomID, requesterID)
	if err != nil {
		return Update{}, err
	}
	if drained {
		s.queues.removeIfEmpty(hostelID)
	}
	if s.hub != nil {
		s.hub.Broadcast(hostelID, Frame{
			Type:     "update",
			HostelID: upd.HostelID,
			RoomID:   upd.RoomID,
			GroupID:  upd.GroupID,
		})
	}
	if s.onTurn != nil {
		s.onTurn(hostelID, next.Group, hasNext)
	}
	return upd, nil
}

func (s *Service) selectLocked(ctx context.Context, hostelID, roomID, requesterID string) (upd Update, next QueueEntry, hasNext, drained bool, err error) {
	q, ok := s.queues.lookup(hostelID)
	if !ok {
		return upd, next, false, false, ErrQueueNotFound
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return upd, next, false, false, ErrQueueNotFound
	}
	head := q.entries[0]
	if s.queues.clock().Sub(head.StartedAt) > s.window {
		return upd, next, false, false, ErrTurnExpired
	}
	if !s.policy.Eligible(head.Group, requesterID) {
		return upd, next, false, false, ErrNotEligible
	}

	allotted, err := s.store.RoomAllotted(ctx, hostelID, roomID)
	if err != nil {
		return upd, next, false, false, fmt.Errorf("check allotment: %w", err)
	}
	if allotted {
		return upd, next, false, false, ErrRoomAllotted
	}

	if err := s.store.AllotRoom(ctx, hostelID, roomID, head.Group.MemberIDs()); err != nil {
		return upd, next, false, false, fmt.Errorf("commit allotment: %w", err)
	}

	next, hasNext = q.advanceLocked(s.queues.clock())
	drained = len(q.entries) == 0
	upd = Update{HostelID: hostelID, RoomID: roomID, GroupID: head.Group.ID}
	return upd, next, hasNext, drained, nil
}
