package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating represents one judge's score for one parameter of one entry.
// At most one live row exists per (entry, judge, parameter); resubmission
// overwrites score, note and timestamp in place.
type Rating struct {
	ID            string               `gorm:"type:uuid;primary_key" json:"id"`
	CompetitionID string               `gorm:"type:uuid;not null;column:competition_id" json:"competition_id"`
	EntryID       string               `gorm:"type:uuid;not null;column:entry_id;index:idx_rating_key" json:"entry_id"`
	JudgeID       string               `gorm:"type:uuid;not null;column:judge_id;index:idx_rating_key" json:"judge_id"`
	ParameterID   string               `gorm:"type:uuid;not null;column:parameter_id;index:idx_rating_key" json:"parameter_id"`
	Score         float64              `gorm:"type:numeric(5,2);not null" json:"score"`
	Note          string               `gorm:"type:text" json:"note"`
	SubmittedAt   time.Time            `gorm:"not null;column:submitted_at" json:"submitted_at"`
	Entry         *CompetitionEntry    `gorm:"foreignKey:EntryID" json:"-"`
	Judge         *User                `gorm:"foreignKey:JudgeID" json:"judge,omitempty"`
	Parameter     *EvaluationParameter `gorm:"foreignKey:ParameterID" json:"parameter,omitempty"`
	DeletedAt     *time.Time           `gorm:"index" json:"-"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
