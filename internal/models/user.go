package models

import "time"

type User struct {
	ID               uint   `gorm:"primaryKey"`
	Email            string `gorm:"uniqueIndex;not null"`
	PasswordHash     string `gorm:"not null"`
	RecoveryCodeHash string `gorm:"not null;default:''"`
	DisplayName      string
	CreatedAt        time.Time `gorm:"not null"`
}
