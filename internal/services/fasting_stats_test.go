package services

import (
	"testing"
	"time"

	"github.com/YahyaMS/sukari/internal/models"
)

func terminalSession(status string, start time.Time, hours float64, readiness int) models.FastingSession {
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	return models.FastingSession{
		Status:         status,
		StartTime:      start,
		ActualEndTime:  &end,
		ReadinessScore: readiness,
	}
}

func TestBuildFastingStats_Empty(t *testing.T) {
	t.Parallel()

	stats := BuildFastingStats(nil)
	if stats.TotalSessions != 0 || stats.CompletionRate != 0 || stats.LongestFastHours != 0 {
		t.Fatalf("expected zero stats for empty history, got %+v", stats)
	}
}

func TestBuildFastingStats_Aggregates(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	sessions := []models.FastingSession{
		terminalSession(models.SessionStatusCompleted, start, 16, 90),
		terminalSession(models.SessionStatusCompleted, start.AddDate(0, 0, 2), 18, 80),
		terminalSession(models.SessionStatusBroken, start.AddDate(0, 0, 4), 8, 70),
		{Status: models.SessionStatusActive, StartTime: start.AddDate(0, 0, 6), ReadinessScore: 60},
	}

	stats := BuildFastingStats(sessions)

	if stats.TotalSessions != 4 {
		t.Fatalf("expected 4 total sessions, got %d", stats.TotalSessions)
	}
	if stats.CompletedSessions != 2 || stats.BrokenSessions != 1 {
		t.Fatalf("expected 2 completed and 1 broken, got %d/%d", stats.CompletedSessions, stats.BrokenSessions)
	}
	if stats.CompletionRate != 66.7 {
		t.Fatalf("expected completion rate 66.7, got %v", stats.CompletionRate)
	}
	if stats.TotalHoursFasted != 42 {
		t.Fatalf("expected 42 hours fasted, got %v", stats.TotalHoursFasted)
	}
	if stats.AverageDurationHours != 14 {
		t.Fatalf("expected average duration 14, got %v", stats.AverageDurationHours)
	}
	if stats.LongestFastHours != 18 {
		t.Fatalf("expected longest fast 18, got %v", stats.LongestFastHours)
	}
	if stats.AverageReadiness != 75 {
		t.Fatalf("expected average readiness 75, got %v", stats.AverageReadiness)
	}
}

func TestBuildFastingStats_ActiveSessionHasNoDuration(t *testing.T) {
	t.Parallel()

	sessions := []models.FastingSession{
		{Status: models.SessionStatusActive, StartTime: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC), ReadinessScore: 85},
	}
	stats := BuildFastingStats(sessions)

	if stats.TotalSessions != 1 || stats.CompletedSessions != 0 {
		t.Fatalf("expected one uncounted active session, got %+v", stats)
	}
	if stats.AverageDurationHours != 0 || stats.LongestFastHours != 0 || stats.CompletionRate != 0 {
		t.Fatalf("expected no duration stats for an active session, got %+v", stats)
	}
}
