package model

import "time"

// Group is a set of students applying together for one room.
type Group struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	StudentYear int       `gorm:"index;not null" json:"studentYear"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// Associations
	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members"`
}

// GroupMember links a student to a group. Exactly one member per group is
// flagged as the group admin.
type GroupMember struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	GroupID      string    `gorm:"index;size:36;not null" json:"groupId"`
	StudentID    string    `gorm:"uniqueIndex;size:36;not null" json:"studentId"`
	IsGroupAdmin bool      `gorm:"not null" json:"isGroupAdmin"`
	CreatedAt    time.Time `json:"-"`
}
