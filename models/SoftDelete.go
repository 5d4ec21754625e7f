package models

import (
	"time"

	"gorm.io/gorm"
)

// Soft deletion is an explicit nullable timestamp on each entity rather than
// gorm's DeletedAt wrapper, so every query states its own liveness filter.

// Live scopes a query to rows that have not been soft-deleted
func Live(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

// IsLive reports whether a soft-deletable row is still visible
func IsLive(deletedAt *time.Time) bool {
	return deletedAt == nil
}
