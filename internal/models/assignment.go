package models

// Assignment links one account to one task. The task row must exist; the
// store enforces it through the foreign key.
type Assignment struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	AccountID  uint `gorm:"not null;index" json:"account_id"`
	TaskID     uint `gorm:"not null;index" json:"task_id"`
	IsPriority bool `gorm:"not null;default:false" json:"is_priority"`
	Task       Task `gorm:"foreignKey:TaskID" json:"task"`
}
