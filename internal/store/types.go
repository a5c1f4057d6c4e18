package store

import "hostel-allotment-backend/internal/model"

// RoomOccupancy pairs a room with its current number of occupants.
type RoomOccupancy struct {
	Room      model.Room
	Occupants int
}

// UnassignedStudent is a student without a room, with their group link if
// any. GroupID is empty for ungrouped students.
type UnassignedStudent struct {
	StudentID string
	GroupID   string
}
