package models

import (
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

type Todo struct {
	ID        string     `gorm:"primarykey;type:varchar(36)" bson:"_id" json:"id"`
	Title     string     `gorm:"type:varchar(200);not null" bson:"title" json:"title"`
	Completed bool       `gorm:"not null;default:false" bson:"completed" json:"completed"`
	Priority  Priority   `gorm:"type:varchar(10);not null;default:'medium'" bson:"priority" json:"priority"`
	DueDate   *time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	CreatedAt time.Time  `gorm:"not null" bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null" bson:"updatedAt" json:"updatedAt"`
}

// NewTodo builds an unsaved, active todo. The ID is left empty for the
// repository to assign.
func NewTodo(title Title, priority Priority, dueDate *time.Time) *Todo {
	if priority == "" {
		priority = PriorityMedium
	}
	return &Todo{
		Title:    title.String(),
		Priority: priority,
		DueDate:  dueDate,
	}
}

// IsOverdue reports whether an active todo is past its due date.
func (t Todo) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}
