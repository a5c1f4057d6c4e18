package model

import "time"

// Hostel represents a hostel building owned by an institution.
type Hostel struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	InstitutionID string    `gorm:"index;size:36;not null" json:"institutionId"`
	CreatedAt     time.Time `gorm:"not null" json:"-"`
	UpdatedAt     time.Time `gorm:"not null" json:"-"`

	// Associations
	Rooms []Room `gorm:"foreignKey:HostelID" json:"-"`
}
