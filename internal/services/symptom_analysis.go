package services

import "strings"

const (
	InterventionBreakFast      = "break_fast"
	InterventionMonitorClosely = "monitor_closely"
)

type SymptomReport struct {
	Type          string
	Severity      int
	Description   string
	HoursIntoFast float64
	Glucose       *float64
}

type SymptomVerdict struct {
	Recommendation     string `json:"recommendation"`
	InterventionNeeded bool   `json:"intervention_needed"`
	InterventionType   string `json:"intervention_type,omitempty"`
}

// AnalyzeSymptom maps a reported symptom onto the per-type decision table.
// The severity cutoffs encode the product's safety policy and must not be
// collapsed into a single generic threshold.
func AnalyzeSymptom(report SymptomReport) SymptomVerdict {
	switch strings.ToLower(strings.TrimSpace(report.Type)) {
	case "headache":
		if report.Severity >= 7 {
			return SymptomVerdict{
				Recommendation:     "A severe headache this far in usually means dehydration or electrolyte loss. Break your fast and drink water with a pinch of salt.",
				InterventionNeeded: true,
				InterventionType:   InterventionBreakFast,
			}
		}
		return SymptomVerdict{
			Recommendation: "Mild headaches are common while fasting. Drink water, add a pinch of salt, and rest away from screens.",
		}
	case "dizziness":
		if report.Severity >= 6 {
			return SymptomVerdict{
				Recommendation:     "Dizziness at this level needs close attention. Sit down, hydrate, and check your glucose if you can.",
				InterventionNeeded: true,
				InterventionType:   InterventionMonitorClosely,
			}
		}
		return SymptomVerdict{
			Recommendation: "Light dizziness can come from standing up quickly. Move slowly and sip water with electrolytes.",
		}
	case "nausea":
		if report.Severity >= 7 {
			return SymptomVerdict{
				Recommendation:     "Strong nausea is a signal to stop. Break your fast gently with something bland like broth.",
				InterventionNeeded: true,
				InterventionType:   InterventionBreakFast,
			}
		}
		return SymptomVerdict{
			Recommendation: "Mild nausea often passes within 20-30 minutes. Try peppermint or ginger tea and fresh air.",
		}
	case "fatigue":
		// Extreme fatigue in the first half-day points at poor readiness
		// rather than normal fasting adaptation.
		if report.Severity >= 8 && report.HoursIntoFast < 12 {
			return SymptomVerdict{
				Recommendation:     "Exhaustion this early suggests your body was not ready for this fast. Break it and try again after a full night's sleep.",
				InterventionNeeded: true,
				InterventionType:   InterventionBreakFast,
			}
		}
		return SymptomVerdict{
			Recommendation: "An energy dip is normal as your body switches fuel sources. Light movement and hydration usually help.",
		}
	default:
		return SymptomVerdict{
			Recommendation: "Keep monitoring how you feel. If the symptom intensifies or new ones appear, consider breaking your fast.",
		}
	}
}
