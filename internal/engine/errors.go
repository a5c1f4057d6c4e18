package engine

import "errors"

// Policy-violation errors surfaced to the sender as rejection frames. None of
// them leaves any queue or store mutation behind; the caller may retry or
// wait for its turn.
var (
	ErrQueueNotFound = errors.New("queue not found")
	ErrTurnExpired   = errors.New("turn time expired")
	ErrNotEligible   = errors.New("you are not in the queue or not eligible for this group")
	ErrRoomAllotted  = errors.New("room already allotted")
	ErrNotOperator   = errors.New("operator authorization required")
	ErrMalformed     = errors.New("malformed command")
)
