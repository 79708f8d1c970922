package models

import "time"

const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusBroken    = "broken"
)

const (
	PhasePreparation = "preparation"
	PhaseEarly       = "early"
	PhaseAdaptation  = "adaptation"
	PhaseDeep        = "deep"
	PhaseExtended    = "extended"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// PhaseRank orders fasting phases; a session's phase may never move to a
// lower rank.
func PhaseRank(phase string) int {
	switch phase {
	case PhasePreparation:
		return 0
	case PhaseEarly:
		return 1
	case PhaseAdaptation:
		return 2
	case PhaseDeep:
		return 3
	case PhaseExtended:
		return 4
	default:
		return -1
	}
}

type SessionRecommendations struct {
	Hydration    string `json:"hydration"`
	Monitoring   string `json:"monitoring"`
	BreakingFast string `json:"breaking_fast"`
}

type FastingSession struct {
	ID               string `gorm:"primaryKey"`
	UserID           uint   `gorm:"not null;index"`
	PlanType         string `gorm:"not null"`
	PlannedHours     int    `gorm:"not null"`
	Status           string `gorm:"not null;default:active"`
	CurrentPhase     string `gorm:"not null;default:preparation"`
	StartTime        time.Time
	PlannedEndTime   time.Time
	ActualEndTime    *time.Time
	ReadinessScore   int
	RiskLevel        string                 `gorm:"not null;default:low"`
	Recommendations  SessionRecommendations `gorm:"serializer:json"`
	Guidance         string
	StartGlucose     *float64
	StartWeight      *float64
	StartEnergyLevel *int
	StartMood        *int
	EndGlucose       *float64
	EndWeight        *float64
	EndEnergyLevel   *int
	EndMood          *int
	SuccessRating    *int
	DifficultyRating *int
	Notes            string
	BreakReason      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (session *FastingSession) Terminal() bool {
	return session.Status != SessionStatusActive
}
