package services

import (
	"math"

	"github.com/YahyaMS/sukari/internal/models"
)

type FastingStats struct {
	TotalSessions        int     `json:"total_sessions"`
	CompletedSessions    int     `json:"completed_sessions"`
	BrokenSessions       int     `json:"broken_sessions"`
	CompletionRate       float64 `json:"completion_rate"`
	TotalHoursFasted     float64 `json:"total_hours_fasted"`
	AverageDurationHours float64 `json:"average_duration_hours"`
	LongestFastHours     float64 `json:"longest_fast_hours"`
	AverageReadiness     float64 `json:"average_readiness"`
}

// BuildFastingStats aggregates a user's session history. Only terminal
// sessions count toward duration figures; an in-flight session has no
// final duration yet.
func BuildFastingStats(sessions []models.FastingSession) FastingStats {
	stats := FastingStats{TotalSessions: len(sessions)}
	if len(sessions) == 0 {
		return stats
	}

	readinessTotal := 0
	terminalCount := 0
	for _, session := range sessions {
		readinessTotal += session.ReadinessScore

		switch session.Status {
		case models.SessionStatusCompleted:
			stats.CompletedSessions++
		case models.SessionStatusBroken:
			stats.BrokenSessions++
		default:
			continue
		}

		if session.ActualEndTime == nil {
			continue
		}
		duration := session.ActualEndTime.Sub(session.StartTime).Hours()
		if duration < 0 {
			duration = 0
		}
		terminalCount++
		stats.TotalHoursFasted += duration
		if duration > stats.LongestFastHours {
			stats.LongestFastHours = duration
		}
	}

	if terminal := stats.CompletedSessions + stats.BrokenSessions; terminal > 0 {
		stats.CompletionRate = roundToTenth(float64(stats.CompletedSessions) / float64(terminal) * 100)
	}
	if terminalCount > 0 {
		stats.AverageDurationHours = roundToTenth(stats.TotalHoursFasted / float64(terminalCount))
	}
	stats.TotalHoursFasted = roundToTenth(stats.TotalHoursFasted)
	stats.LongestFastHours = roundToTenth(stats.LongestFastHours)
	stats.AverageReadiness = roundToTenth(float64(readinessTotal) / float64(len(sessions)))
	return stats
}

func roundToTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
