package services

import (
	"strings"

	"github.com/YahyaMS/sukari/internal/models"
)

type TelemetrySample struct {
	Symptoms     []string
	Glucose      *float64
	EnergyLevel  *int
	HoursElapsed float64
}

type RiskAssessment struct {
	Level       string `json:"level"`
	CanContinue bool   `json:"can_continue"`
}

// EvaluateRisk grades in-fast telemetry. The additive tier and the
// continuation veto use different thresholds on purpose: the tier is a
// soft signal, the veto is a hard stop. The two rule sets must stay
// independent.
func EvaluateRisk(sample TelemetrySample) RiskAssessment {
	score := 0

	if len(sample.Symptoms) > 2 {
		score += 2
	}
	if hasSymptom(sample.Symptoms, "dizziness") {
		score++
	}
	if hasSymptom(sample.Symptoms, "severe_hunger") {
		score++
	}
	if sample.Glucose != nil {
		if *sample.Glucose < 70 {
			score += 3
		}
		if *sample.Glucose > 200 {
			score += 2
		}
	}
	if sample.EnergyLevel != nil && *sample.EnergyLevel < 3 {
		score += 2
	}
	if sample.HoursElapsed > 24 {
		score++
	}

	level := models.RiskLow
	switch {
	case score >= 5:
		level = models.RiskHigh
	case score >= 3:
		level = models.RiskMedium
	}

	return RiskAssessment{
		Level:       level,
		CanContinue: continuationAllowed(sample),
	}
}

func continuationAllowed(sample TelemetrySample) bool {
	for _, symptom := range sample.Symptoms {
		switch strings.ToLower(strings.TrimSpace(symptom)) {
		case "severe_dizziness", "heart_palpitations", "severe_nausea":
			return false
		}
	}
	if sample.Glucose != nil && *sample.Glucose < 60 {
		return false
	}
	if sample.EnergyLevel != nil && *sample.EnergyLevel < 2 {
		return false
	}
	return true
}

func hasSymptom(symptoms []string, name string) bool {
	for _, symptom := range symptoms {
		if strings.EqualFold(strings.TrimSpace(symptom), name) {
			return true
		}
	}
	return false
}
