package models

import "time"

type Account struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Handle           string     `gorm:"uniqueIndex;not null" json:"handle"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	SecretAnswerHash string     `gorm:"not null" json:"-"`
	FirstName        string     `gorm:"not null" json:"first_name"`
	LastName         string     `gorm:"not null" json:"last_name"`
	FailedAttempts   int        `gorm:"not null;default:0" json:"-"`
	LastFailedAt     *time.Time `json:"-"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
}
