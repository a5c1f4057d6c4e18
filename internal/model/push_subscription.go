package model

import "time"

// PushSubscription holds a student's browser push subscription, used to tell
// a group its selection turn has started.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	StudentID string    `gorm:"index;size:36;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
