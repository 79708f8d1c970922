package api

import (
	"errors"
	"strings"

	"github.com/YahyaMS/sukari/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": services.Plans()})
}

func (handler *Handler) CheckReadiness(c *fiber.Ctx) error {
	input := readinessInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	assessment := services.EvaluateReadiness(services.ReadinessInput{
		Glucose:        input.Glucose,
		LastMealHours:  input.LastMealHours,
		SleepQuality:   input.SleepQuality,
		StressLevel:    input.StressLevel,
		HydrationLevel: input.HydrationLevel,
	})
	handler.metrics.RecordReadinessCheck(assessment.CanStart)
	return c.JSON(assessment)
}

func (handler *Handler) StartSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := startSessionInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	session, err := handler.fastingService.StartSession(user.ID, services.StartSessionInput{
		PlanType: input.PlanType,
		Hours:    input.Hours,
		Baseline: services.SessionBaseline{
			Glucose:     input.Glucose,
			Weight:      input.Weight,
			EnergyLevel: input.EnergyLevel,
			Mood:        input.Mood,
		},
		ReadinessScore: input.ReadinessScore,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnknownFastingPlan) {
			return apiError(c, fiber.StatusBadRequest, "unknown fasting plan")
		}
		if errors.Is(err, services.ErrActiveSessionExists) {
			return apiError(c, fiber.StatusConflict, "an active fasting session already exists")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to start session")
	}

	handler.metrics.RecordSessionStarted(session.PlanType)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": buildSessionView(session)})
}

func (handler *Handler) GetCurrentSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := handler.fastingService.CurrentSession(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load session")
	}
	if session == nil {
		return c.JSON(fiber.Map{"session": nil})
	}
	return c.JSON(fiber.Map{"session": buildSessionView(*session)})
}

func (handler *Handler) SessionGuidance(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := telemetryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	guidance, err := handler.fastingService.RealTimeGuidance(user.ID, c.Params("id"), services.GuidanceTelemetry{
		Symptoms:    input.Symptoms,
		Glucose:     input.Glucose,
		EnergyLevel: input.EnergyLevel,
	})
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return apiError(c, fiber.StatusNotFound, "session not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to build guidance")
	}
	return c.JSON(guidance)
}

func (handler *Handler) RefreshSessionPhase(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := handler.fastingService.RefreshPhase(user.ID, c.Params("id"))
	if err != nil {
		return handler.sessionError(c, err, "failed to refresh phase")
	}
	return c.JSON(fiber.Map{"session": buildSessionView(session)})
}

func (handler *Handler) LogSymptom(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := symptomInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if strings.TrimSpace(input.Type) == "" {
		return apiError(c, fiber.StatusBadRequest, "symptom type is required")
	}
	if input.Severity < 1 || input.Severity > 10 {
		return apiError(c, fiber.StatusBadRequest, "severity must be between 1 and 10")
	}

	symptom, verdict, err := handler.fastingService.LogSymptom(user.ID, c.Params("id"), services.SymptomReport{
		Type:          input.Type,
		Severity:      input.Severity,
		Description:   input.Description,
		HoursIntoFast: input.HoursIntoFast,
		Glucose:       input.Glucose,
	})
	if err != nil {
		return handler.sessionError(c, err, "failed to log symptom")
	}

	handler.metrics.RecordSymptomReport(symptom.Type)
	if verdict.InterventionNeeded {
		handler.metrics.RecordIntervention(verdict.InterventionType)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"symptom": buildSymptomView(symptom),
		"verdict": verdict,
	})
}

func (handler *Handler) GetSessionSymptoms(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	symptoms, err := handler.fastingService.SessionSymptoms(user.ID, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return apiError(c, fiber.StatusNotFound, "session not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to list symptoms")
	}
	return c.JSON(fiber.Map{"symptoms": buildSymptomViews(symptoms)})
}

func (handler *Handler) CompleteSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := endSessionInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	session, err := handler.fastingService.CompleteSession(user.ID, c.Params("id"), buildEndMeasurements(input))
	if err != nil {
		return handler.sessionError(c, err, "failed to complete session")
	}

	handler.metrics.RecordSessionCompleted()
	return c.JSON(fiber.Map{"session": buildSessionView(session)})
}

func (handler *Handler) BreakSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := endSessionInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	session, err := handler.fastingService.BreakSession(user.ID, c.Params("id"), input.Reason, buildEndMeasurements(input))
	if err != nil {
		return handler.sessionError(c, err, "failed to break session")
	}

	handler.metrics.RecordSessionBroken()
	return c.JSON(fiber.Map{"session": buildSessionView(session)})
}

func (handler *Handler) GetHistory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	sessions, err := handler.fastingService.History(user.ID, limit)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load history")
	}
	return c.JSON(fiber.Map{"sessions": buildSessionViews(sessions)})
}

func buildEndMeasurements(input endSessionInput) services.EndMeasurements {
	return services.EndMeasurements{
		Glucose:          input.Glucose,
		Weight:           input.Weight,
		EnergyLevel:      input.EnergyLevel,
		Mood:             input.Mood,
		SuccessRating:    input.SuccessRating,
		DifficultyRating: input.DifficultyRating,
		Notes:            input.Notes,
	}
}

func (handler *Handler) sessionError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return apiError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, services.ErrSessionNotActive):
		return apiError(c, fiber.StatusConflict, "session is no longer active")
	default:
		return apiError(c, fiber.StatusInternalServerError, fallback)
	}
}
