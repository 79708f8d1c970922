package services

import "github.com/YahyaMS/sukari/internal/models"

const (
	phaseEarlyStartHours      = 4
	phaseAdaptationStartHours = 12
	phaseDeepStartHours       = 18
	phaseExtendedStartHours   = 24
)

type Milestone struct {
	Hours       float64 `json:"hours"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// Milestones lists the physiological checkpoints surfaced to the client,
// ordered by elapsed hours.
func Milestones() []Milestone {
	return []Milestone{
		{Hours: 12, Name: "glycogen_depletion", Description: "Liver glycogen runs low and fat burning ramps up."},
		{Hours: 16, Name: "autophagy", Description: "Cellular cleanup (autophagy) becomes measurable."},
		{Hours: 24, Name: "deep_ketosis", Description: "Ketone production is in full swing; mental clarity often peaks."},
	}
}

func NextMilestone(hoursElapsed float64) (Milestone, bool) {
	for _, milestone := range Milestones() {
		if hoursElapsed < milestone.Hours {
			return milestone, true
		}
	}
	return Milestone{}, false
}

func PhaseForElapsed(hoursElapsed float64) string {
	switch {
	case hoursElapsed < phaseEarlyStartHours:
		return models.PhasePreparation
	case hoursElapsed < phaseAdaptationStartHours:
		return models.PhaseEarly
	case hoursElapsed < phaseDeepStartHours:
		return models.PhaseAdaptation
	case hoursElapsed < phaseExtendedStartHours:
		return models.PhaseDeep
	default:
		return models.PhaseExtended
	}
}

// AdvancePhase returns the phase for the elapsed time, but never a phase
// that ranks below the current one: phases are monotonic per session.
func AdvancePhase(currentPhase string, hoursElapsed float64) string {
	candidate := PhaseForElapsed(hoursElapsed)
	if models.PhaseRank(candidate) < models.PhaseRank(currentPhase) {
		return currentPhase
	}
	return candidate
}

func PhaseGuidance(phase string) string {
	switch phase {
	case models.PhasePreparation:
		return "Your body is still digesting. Use this window to hydrate and plan how you will spend the hungry hours."
	case models.PhaseEarly:
		return "Insulin is dropping and your body is switching to stored fuel. Hunger comes in waves; each one passes."
	case models.PhaseAdaptation:
		return "Glycogen is running low and fat burning is taking over. Mild fatigue here is normal, electrolytes help."
	case models.PhaseDeep:
		return "You are in deep fasting territory. Ketones are rising; many people notice steadier energy and focus."
	case models.PhaseExtended:
		return "Past the 24-hour mark every additional hour is advanced fasting. Listen closely to your body and keep electrolytes up."
	default:
		return "Keep hydrating and check in with how you feel."
	}
}
