package model

import "time"

// Admin is an operator account, read here only for authorization checks.
type Admin struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Email         string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	InstitutionID string    `gorm:"index;size:36;not null" json:"institutionId"`
	CreatedAt     time.Time `json:"-"`
}
