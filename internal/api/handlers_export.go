package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

var exportCSVHeaders = []string{
	"plan", "status", "phase", "start_time", "planned_end_time", "actual_end_time",
	"planned_hours", "readiness_score", "risk_level",
	"success_rating", "difficulty_rating", "break_reason", "notes",
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	sessions, err := handler.fastingService.History(user.ID, 0)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch sessions")
	}

	entries := make([]fiber.Map, 0, len(sessions))
	for _, session := range sessions {
		symptoms, err := handler.fastingService.SessionSymptoms(user.ID, session.ID)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to fetch symptoms")
		}
		entries = append(entries, fiber.Map{
			"session":  buildSessionView(session),
			"symptoms": buildSymptomViews(symptoms),
		})
	}

	now := time.Now().In(handler.location)
	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.JSON(fiber.Map{
		"exported_at": now,
		"sessions":    entries,
	})
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	sessions, err := handler.fastingService.History(user.ID, 0)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch sessions")
	}
	now := time.Now().In(handler.location)

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(exportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	for _, session := range sessions {
		if err := writer.Write([]string{
			session.PlanType,
			session.Status,
			session.CurrentPhase,
			session.StartTime.In(handler.location).Format(time.RFC3339),
			session.PlannedEndTime.In(handler.location).Format(time.RFC3339),
			csvOptionalTime(session.ActualEndTime, handler.location),
			strconv.Itoa(session.PlannedHours),
			strconv.Itoa(session.ReadinessScore),
			session.RiskLevel,
			csvOptionalInt(session.SuccessRating),
			csvOptionalInt(session.DifficultyRating),
			session.BreakReason,
			session.Notes,
		}); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func csvOptionalTime(value *time.Time, location *time.Location) string {
	if value == nil {
		return ""
	}
	return value.In(location).Format(time.RFC3339)
}

func csvOptionalInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("sukari-export-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
