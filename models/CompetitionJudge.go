package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompetitionJudge joins a competition and a user authorized to rate its entries.
// Administrators may judge any competition without an assignment row.
type CompetitionJudge struct {
	ID            string       `gorm:"type:uuid;primary_key" json:"id"`
	CompetitionID string       `gorm:"type:uuid;not null;column:competition_id;uniqueIndex:idx_competition_judge" json:"competition_id"`
	JudgeID       string       `gorm:"type:uuid;not null;column:judge_id;uniqueIndex:idx_competition_judge" json:"judge_id"`
	Judge         *User        `gorm:"foreignKey:JudgeID" json:"judge,omitempty"`
	Competition   *Competition `gorm:"foreignKey:CompetitionID" json:"-"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (j *CompetitionJudge) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}
