package models

import "time"

type FastingSymptom struct {
	ID               uint   `gorm:"primaryKey"`
	SessionID        string `gorm:"not null;index"`
	UserID           uint   `gorm:"not null;index"`
	Type             string `gorm:"not null"`
	Severity         int    `gorm:"not null"`
	Description      string
	HoursIntoFast    float64 `gorm:"not null"`
	Glucose          *float64
	Recommendation   string
	Intervention     bool `gorm:"not null;default:false"`
	InterventionType string
	CreatedAt        time.Time
}
