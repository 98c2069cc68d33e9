package models

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null;default:''" json:"description"`
	Priority    string    `gorm:"not null;default:medium" json:"priority"`
	Status      string    `gorm:"not null;default:pending" json:"status"`
	DueAt       time.Time `gorm:"not null;index" json:"due_at"`
	AssignedBy  string    `gorm:"not null;default:''" json:"assigned_by"`
	Note        string    `gorm:"not null;default:''" json:"note"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	// CatalogVersion is set only on tasks seeded from the default catalog.
	CatalogVersion string `gorm:"not null;default:''" json:"catalog_version,omitempty"`
}

func IsValidPriority(value string) bool {
	switch value {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func IsValidStatus(value string) bool {
	switch value {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}
