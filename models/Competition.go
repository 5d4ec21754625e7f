package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Competition statuses. The lifecycle is one-directional: ACTIVE -> ENDED.
const (
	CompetitionStatusActive = "ACTIVE"
	CompetitionStatusEnded  = "ENDED"
)

// Competition represents a judged competition rated against an evaluation model
type Competition struct {
	ID          string              `gorm:"type:uuid;primary_key" json:"id"`
	Name        string              `gorm:"type:varchar(100);not null" json:"name"`
	Description string              `gorm:"type:text" json:"description"`
	ModelID     string              `gorm:"type:uuid;not null;column:model_id" json:"model_id"`
	CreatorID   string              `gorm:"type:uuid;not null;column:creator_id" json:"creator_id"`
	Deadline    time.Time           `gorm:"not null" json:"deadline"`
	Status      string              `gorm:"type:varchar(20);not null;default:ACTIVE" json:"status"`
	Model       *EvaluationModel    `gorm:"foreignKey:ModelID" json:"model,omitempty"`
	Creator     *User               `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Judges      []*CompetitionJudge `gorm:"foreignKey:CompetitionID" json:"judges,omitempty"`
	Entries     []*CompetitionEntry `gorm:"foreignKey:CompetitionID" json:"entries,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   *time.Time          `gorm:"index" json:"-"`
}

func (c *Competition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = CompetitionStatusActive
	}
	return nil
}

func (c *Competition) IsActive() bool {
	return c.Status == CompetitionStatusActive
}

func (c *Competition) IsEnded() bool {
	return c.Status == CompetitionStatusEnded
}

func (c *Competition) IsDeadlinePassed() bool {
	return time.Now().After(c.Deadline)
}

// CanAcceptRatings reports whether the competition is active and the deadline has not passed
func (c *Competition) CanAcceptRatings() bool {
	return c.IsActive() && !c.IsDeadlinePassed()
}

// CanAcceptSubmissions reports whether the competition is active and the deadline has not passed
func (c *Competition) CanAcceptSubmissions() bool {
	return c.IsActive() && !c.IsDeadlinePassed()
}
