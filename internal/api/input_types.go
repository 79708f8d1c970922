package api

type credentialsInput struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	DisplayName string `json:"display_name" form:"display_name"`
	RememberMe  bool   `json:"remember_me" form:"remember_me"`
}

type forgotPasswordInput struct {
	RecoveryCode string `json:"recovery_code" form:"recovery_code"`
}

type resetPasswordInput struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
}

type readinessInput struct {
	Glucose        *float64 `json:"glucose"`
	LastMealHours  float64  `json:"last_meal_hours"`
	SleepQuality   int      `json:"sleep_quality"`
	StressLevel    int      `json:"stress_level"`
	HydrationLevel int      `json:"hydration_level"`
}

type startSessionInput struct {
	PlanType       string   `json:"plan_type"`
	Hours          int      `json:"hours"`
	ReadinessScore int      `json:"readiness_score"`
	Glucose        *float64 `json:"glucose"`
	Weight         *float64 `json:"weight"`
	EnergyLevel    *int     `json:"energy_level"`
	Mood           *int     `json:"mood"`
}

type telemetryInput struct {
	Symptoms    []string `json:"symptoms"`
	Glucose     *float64 `json:"glucose"`
	EnergyLevel *int     `json:"energy_level"`
}

type symptomInput struct {
	Type          string   `json:"type"`
	Severity      int      `json:"severity"`
	Description   string   `json:"description"`
	HoursIntoFast float64  `json:"hours_into_fast"`
	Glucose       *float64 `json:"glucose"`
}

type endSessionInput struct {
	Reason           string   `json:"reason"`
	Glucose          *float64 `json:"glucose"`
	Weight           *float64 `json:"weight"`
	EnergyLevel      *int     `json:"energy_level"`
	Mood             *int     `json:"mood"`
	SuccessRating    *int     `json:"success_rating"`
	DifficultyRating *int     `json:"difficulty_rating"`
	Notes            string   `json:"notes"`
}
