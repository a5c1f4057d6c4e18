package model

import "time"

// Room is an allocatable unit with a fixed occupant capacity.
type Room struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	HostelID  string `gorm:"index;size:36;not null" json:"hostelId"`
	Name      string `gorm:"size:64;not null" json:"name"`
	Capacity  int    `gorm:"not null" json:"capacity"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Hostel        Hostel         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AllottedRooms []AllottedRoom `gorm:"foreignKey:RoomID" json:"-"`
}
