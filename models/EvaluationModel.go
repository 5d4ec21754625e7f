package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvaluationModel represents a named scoring model whose weighted parameters sum to 100
type EvaluationModel struct {
	ID         string                 `gorm:"type:uuid;primary_key" json:"id"`
	// Uniqueness among live models is enforced in the service; soft-deleted
	// rows keep the name without blocking reuse
	Name       string                 `gorm:"type:varchar(100);not null" json:"name"`
	Parameters []*EvaluationParameter `gorm:"foreignKey:ModelID" json:"parameters"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
	DeletedAt  *time.Time             `gorm:"index" json:"-"`
}

func (m *EvaluationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
