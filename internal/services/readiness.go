package services

import "github.com/YahyaMS/sukari/internal/models"

type ReadinessInput struct {
	Glucose        *float64
	LastMealHours  float64
	SleepQuality   int
	StressLevel    int
	HydrationLevel int
}

type ReadinessAssessment struct {
	Score           int      `json:"score"`
	RiskTier        string   `json:"risk_tier"`
	CanStart        bool     `json:"can_start"`
	Recommendations []string `json:"recommendations"`
}

const readinessStartThreshold = 60

// EvaluateReadiness scores fitness-to-start from pre-fast health inputs.
// The additive formula and the recommendation rules are independent: a
// recommendation may fire even when its input does not move the score.
func EvaluateReadiness(input ReadinessInput) ReadinessAssessment {
	score := 50

	if input.Glucose != nil {
		glucose := *input.Glucose
		switch {
		case glucose >= 80 && glucose <= 120:
			score += 15
		case glucose >= 70 && glucose <= 140:
			score += 10
		default:
			score -= 10
		}
	}

	switch {
	case input.LastMealHours >= 4:
		score += 15
	case input.LastMealHours >= 3:
		score += 10
	default:
		score -= 15
	}

	score += (input.SleepQuality - 5) * 3
	score -= (input.StressLevel - 5) * 2
	score += (input.HydrationLevel - 5) * 2

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	tier := models.RiskHigh
	switch {
	case score >= 80:
		tier = models.RiskLow
	case score >= readinessStartThreshold:
		tier = models.RiskMedium
	}

	return ReadinessAssessment{
		Score:           score,
		RiskTier:        tier,
		CanStart:        score >= readinessStartThreshold,
		Recommendations: readinessRecommendations(input, score),
	}
}

func readinessRecommendations(input ReadinessInput, score int) []string {
	recommendations := make([]string, 0, 4)

	if input.Glucose != nil && *input.Glucose > 150 {
		recommendations = append(recommendations, "Your glucose is elevated. Consider waiting until it settles below 150 mg/dL before starting.")
	}
	if input.LastMealHours < 3 {
		recommendations = append(recommendations, "You ate recently. Waiting 3-4 hours after your last meal makes the transition into fasting easier.")
	}
	if input.SleepQuality < 6 {
		recommendations = append(recommendations, "Poor sleep makes fasting harder. A shorter fast or a rest day may serve you better today.")
	}
	if input.StressLevel > 7 {
		recommendations = append(recommendations, "High stress raises cortisol and hunger. Try a relaxation exercise before committing to a long fast.")
	}
	if input.HydrationLevel < 7 {
		recommendations = append(recommendations, "Start hydrating now. Going into a fast under-hydrated is the most common cause of early headaches.")
	}
	if score >= 80 {
		recommendations = append(recommendations, "You are well prepared. This is a great window to start your fast.")
	}

	return recommendations
}
