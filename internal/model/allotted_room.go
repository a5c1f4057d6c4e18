package model

import "time"

// AllottedRoom is the committed fact linking a student to a room in a hostel.
// A student is assigned at most once overall; within the live queue flow a
// room is assigned to at most one group.
type AllottedRoom struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	HostelID      string    `gorm:"index:idx_allotted_hostel_room;size:36;not null" json:"hostelId"`
	RoomID        string    `gorm:"index:idx_allotted_hostel_room;size:36;not null" json:"roomId"`
	StudentID     string    `gorm:"uniqueIndex;size:36;not null" json:"studentId"`
	InstitutionID string    `gorm:"size:36;not null" json:"institutionId"`
	CreatedAt     time.Time `gorm:"not null" json:"-"`
}
