package domain

import (
	"time"

	"gorm.io/gorm"
)

// User is the read-only identity view the session core consumes. Account
// management (registration, password policy, 2FA enrollment) lives in the
// user-management service and is not part of this module.
type User struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	Email     string         `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
