package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry moderation statuses. Only APPROVED entries are ratable.
const (
	EntryStatusPending  = "PENDING"
	EntryStatusApproved = "APPROVED"
	EntryStatusRejected = "REJECTED"
)

// CompetitionEntry represents a contestant's submission to a competition
type CompetitionEntry struct {
	ID            string       `gorm:"type:uuid;primary_key" json:"id"`
	CompetitionID string       `gorm:"type:uuid;not null;column:competition_id" json:"competition_id"`
	EntryName     string       `gorm:"type:varchar(100);not null;column:entry_name" json:"entry_name"`
	Description   string       `gorm:"type:text" json:"description"`
	FilePath      string       `gorm:"type:varchar(255);column:file_path" json:"file_path"`
	DisplayOrder  int          `gorm:"type:integer;not null;column:display_order" json:"display_order"`
	Status        string       `gorm:"type:varchar(20);not null;default:PENDING" json:"status"`
	ContestantID  *string      `gorm:"type:uuid;column:contestant_id" json:"contestant_id"`
	Contestant    *User        `gorm:"foreignKey:ContestantID" json:"contestant,omitempty"`
	Competition   *Competition `gorm:"foreignKey:CompetitionID" json:"-"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	DeletedAt     *time.Time   `gorm:"index" json:"-"`
}

func (e *CompetitionEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = EntryStatusPending
	}
	return nil
}

func (e *CompetitionEntry) IsApproved() bool {
	return e.Status == EntryStatusApproved
}

// ValidEntryStatus reports whether s is one of the three moderation statuses
func ValidEntryStatus(s string) bool {
	return s == EntryStatusPending || s == EntryStatusApproved || s == EntryStatusRejected
}
