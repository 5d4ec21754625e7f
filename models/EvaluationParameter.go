package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvaluationParameter represents one weighted scoring dimension of an evaluation model.
// The weight is also the maximum permissible score for the parameter.
type EvaluationParameter struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	ModelID      string    `gorm:"type:uuid;not null;column:model_id" json:"model_id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Weight       int       `gorm:"type:integer;not null" json:"weight"`
	DisplayOrder int       `gorm:"type:integer;not null;column:display_order" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *EvaluationParameter) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
