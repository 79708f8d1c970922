package api

import (
	"time"

	"github.com/YahyaMS/sukari/internal/models"
)

type sessionView struct {
	ID               string                        `json:"id"`
	PlanType         string                        `json:"plan_type"`
	PlannedHours     int                           `json:"planned_hours"`
	Status           string                        `json:"status"`
	CurrentPhase     string                        `json:"current_phase"`
	StartTime        time.Time                     `json:"start_time"`
	PlannedEndTime   time.Time                     `json:"planned_end_time"`
	ActualEndTime    *time.Time                    `json:"actual_end_time,omitempty"`
	ReadinessScore   int                           `json:"readiness_score"`
	RiskLevel        string                        `json:"risk_level"`
	Recommendations  models.SessionRecommendations `json:"recommendations"`
	Guidance         string                        `json:"guidance"`
	StartGlucose     *float64                      `json:"start_glucose,omitempty"`
	StartWeight      *float64                      `json:"start_weight,omitempty"`
	EndGlucose       *float64                      `json:"end_glucose,omitempty"`
	EndWeight        *float64                      `json:"end_weight,omitempty"`
	SuccessRating    *int                          `json:"success_rating,omitempty"`
	DifficultyRating *int                          `json:"difficulty_rating,omitempty"`
	Notes            string                        `json:"notes,omitempty"`
	BreakReason      string                        `json:"break_reason,omitempty"`
}

func buildSessionView(session models.FastingSession) sessionView {
	return sessionView{
		ID:               session.ID,
		PlanType:         session.PlanType,
		PlannedHours:     session.PlannedHours,
		Status:           session.Status,
		CurrentPhase:     session.CurrentPhase,
		StartTime:        session.StartTime,
		PlannedEndTime:   session.PlannedEndTime,
		ActualEndTime:    session.ActualEndTime,
		ReadinessScore:   session.ReadinessScore,
		RiskLevel:        session.RiskLevel,
		Recommendations:  session.Recommendations,
		Guidance:         session.Guidance,
		StartGlucose:     session.StartGlucose,
		StartWeight:      session.StartWeight,
		EndGlucose:       session.EndGlucose,
		EndWeight:        session.EndWeight,
		SuccessRating:    session.SuccessRating,
		DifficultyRating: session.DifficultyRating,
		Notes:            session.Notes,
		BreakReason:      session.BreakReason,
	}
}

func buildSessionViews(sessions []models.FastingSession) []sessionView {
	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, buildSessionView(session))
	}
	return views
}

type symptomView struct {
	ID               uint      `json:"id"`
	SessionID        string    `json:"session_id"`
	Type             string    `json:"type"`
	Severity         int       `json:"severity"`
	Description      string    `json:"description,omitempty"`
	HoursIntoFast    float64   `json:"hours_into_fast"`
	Glucose          *float64  `json:"glucose,omitempty"`
	Recommendation   string    `json:"recommendation"`
	Intervention     bool      `json:"intervention"`
	InterventionType string    `json:"intervention_type,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func buildSymptomView(symptom models.FastingSymptom) symptomView {
	return symptomView{
		ID:               symptom.ID,
		SessionID:        symptom.SessionID,
		Type:             symptom.Type,
		Severity:         symptom.Severity,
		Description:      symptom.Description,
		HoursIntoFast:    symptom.HoursIntoFast,
		Glucose:          symptom.Glucose,
		Recommendation:   symptom.Recommendation,
		Intervention:     symptom.Intervention,
		InterventionType: symptom.InterventionType,
		CreatedAt:        symptom.CreatedAt,
	}
}

func buildSymptomViews(symptoms []models.FastingSymptom) []symptomView {
	views := make([]symptomView, 0, len(symptoms))
	for _, symptom := range symptoms {
		views = append(views, buildSymptomView(symptom))
	}
	return views
}
