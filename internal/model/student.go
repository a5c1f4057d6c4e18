package model

import "time"

// Student carries the minimum identity the allotment flow needs. Signup and
// credential handling live in a separate service.
type Student struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Username      string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	InstitutionID string    `gorm:"index;size:36;not null" json:"institutionId"`
	CurrentYear   int       `gorm:"not null" json:"currentYear"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}
