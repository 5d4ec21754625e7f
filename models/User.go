package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account that can create competitions, judge them, or submit entries
type User struct {
	ID        string     `gorm:"type:uuid;primary_key" json:"id"`
	Username  string     `gorm:"type:varchar(50);unique;not null" json:"username"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin   bool       `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
