package database

import (
	"gorm.io/gorm"
)

// CompletedIs filters todos by completion state.
func CompletedIs(completed bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("completed = ?", completed)
	}
}

// NewestFirst orders rows by creation time, newest first.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}
