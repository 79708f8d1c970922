package services

import (
	"fmt"
	"strings"

	"github.com/YahyaMS/sukari/internal/models"
)

type FastingPlan struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Hours       int    `json:"hours"`
	Description string `json:"description"`
}

func Plans() []FastingPlan {
	return []FastingPlan{
		{Type: "16:8", Label: "16:8 Intermittent", Hours: 16, Description: "16 hours fasting, 8 hour eating window. The most common starting protocol."},
		{Type: "18:6", Label: "18:6 Intermittent", Hours: 18, Description: "18 hours fasting, 6 hour eating window. A step up from 16:8."},
		{Type: "20:4", Label: "20:4 Warrior", Hours: 20, Description: "20 hours fasting with a 4 hour eating window."},
		{Type: "omad", Label: "One Meal A Day", Hours: 23, Description: "A single meal per day, roughly 23 hours fasted."},
		{Type: "extended", Label: "Extended Fast", Hours: 36, Description: "A 36 hour fast. Only for experienced fasters."},
	}
}

func PlanByType(planType string) (FastingPlan, bool) {
	normalized := strings.ToLower(strings.TrimSpace(planType))
	for _, plan := range Plans() {
		if strings.ToLower(plan.Type) == normalized {
			return plan, true
		}
	}
	return FastingPlan{}, false
}

// BuildRecommendations fills the per-session recommendation payload from
// static templates parameterized by plan and duration. No inference call
// is involved.
func BuildRecommendations(plan FastingPlan, hours int) models.SessionRecommendations {
	recommendations := models.SessionRecommendations{
		Hydration:    fmt.Sprintf("Aim for 2-3 liters of water across your %d hour fast, with electrolytes after the first 12 hours.", hours),
		Monitoring:   "Check in with your energy and mood every few hours, and log any symptom as soon as it appears.",
		BreakingFast: "Break your fast gently: start with something light like broth, yogurt, or fruit before a full meal.",
	}
	if hours >= 24 {
		recommendations.Monitoring = "For fasts beyond 24 hours, check glucose at least twice a day and log every symptom promptly."
	}
	if plan.Type == "16:8" {
		recommendations.BreakingFast = "Schedule your first meal inside the 8 hour window and keep it balanced rather than compensatory."
	}
	return recommendations
}

func BuildGuidance(plan FastingPlan, hours int) string {
	return fmt.Sprintf(
		"You are on the %s plan (%d hours). Expect hunger waves around your usual meal times; they pass in 15-20 minutes. %s",
		plan.Label, hours, PhaseGuidance(models.PhasePreparation),
	)
}
