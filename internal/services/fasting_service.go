package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/YahyaMS/sukari/internal/db"
	"github.com/YahyaMS/sukari/internal/models"
	"github.com/google/uuid"
)

var (
	ErrUnknownFastingPlan  = errors.New("unknown fasting plan")
	ErrActiveSessionExists = errors.New("active fasting session already exists")
	ErrSessionNotFound     = errors.New("fasting session not found")
	ErrSessionNotActive    = errors.New("fasting session is not active")
	ErrSessionLoadFailed   = errors.New("load fasting session failed")
	ErrSessionSaveFailed   = errors.New("save fasting session failed")
	ErrSymptomListFailed   = errors.New("list fasting symptoms failed")
)

type SessionRepository interface {
	FindActiveByUser(userID uint) (models.FastingSession, bool, error)
	FindByIDForUser(sessionID string, userID uint) (models.FastingSession, bool, error)
	Create(session *models.FastingSession) error
	Save(session *models.FastingSession) error
	ListByUser(userID uint, limit int) ([]models.FastingSession, error)
}

type SymptomRepository interface {
	Create(symptom *models.FastingSymptom) error
	ListBySession(sessionID string, userID uint) ([]models.FastingSymptom, error)
}

// FastingService owns the create/progress/terminate lifecycle of fasting
// sessions. When the backing tables are not provisioned it degrades to an
// in-memory session per user so the user-facing flow always proceeds.
type FastingService struct {
	sessions SessionRepository
	symptoms SymptomRepository
	now      func() time.Time

	mu         sync.RWMutex
	ephemeral  map[uint]*models.FastingSession
	symptomLog map[string][]models.FastingSymptom
}

func NewFastingService(sessions SessionRepository, symptoms SymptomRepository) *FastingService {
	return &FastingService{
		sessions:   sessions,
		symptoms:   symptoms,
		now:        time.Now,
		ephemeral:  make(map[uint]*models.FastingSession),
		symptomLog: make(map[string][]models.FastingSymptom),
	}
}

type SessionBaseline struct {
	Glucose     *float64
	Weight      *float64
	EnergyLevel *int
	Mood        *int
}

type StartSessionInput struct {
	PlanType       string
	Hours          int
	Baseline       SessionBaseline
	ReadinessScore int
}

// StartSession creates a new active session. It trusts that the caller
// already ran the readiness check; the score is only recorded.
func (service *FastingService) StartSession(userID uint, input StartSessionInput) (models.FastingSession, error) {
	plan, ok := PlanByType(input.PlanType)
	if !ok {
		return models.FastingSession{}, ErrUnknownFastingPlan
	}
	hours := input.Hours
	if hours <= 0 {
		hours = plan.Hours
	}

	notProvisioned := false
	_, found, err := service.sessions.FindActiveByUser(userID)
	switch {
	case err == nil && found:
		return models.FastingSession{}, ErrActiveSessionExists
	case errors.Is(err, db.ErrNotProvisioned):
		notProvisioned = true
	case err != nil:
		// The partial unique index still guards the one-active invariant
		// if this lookup was wrong.
		log.Printf("active fasting session lookup failed: %v", err)
	}
	if service.activeEphemeral(userID) != nil {
		return models.FastingSession{}, ErrActiveSessionExists
	}

	now := service.now()
	session := models.FastingSession{
		ID:               uuid.NewString(),
		UserID:           userID,
		PlanType:         plan.Type,
		PlannedHours:     hours,
		Status:           models.SessionStatusActive,
		CurrentPhase:     models.PhasePreparation,
		StartTime:        now,
		PlannedEndTime:   now.Add(time.Duration(hours) * time.Hour),
		ReadinessScore:   input.ReadinessScore,
		RiskLevel:        models.RiskLow,
		Recommendations:  BuildRecommendations(plan, hours),
		Guidance:         BuildGuidance(plan, hours),
		StartGlucose:     input.Baseline.Glucose,
		StartWeight:      input.Baseline.Weight,
		StartEnergyLevel: input.Baseline.EnergyLevel,
		StartMood:        input.Baseline.Mood,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if notProvisioned {
		service.storeEphemeral(&session)
		return session, nil
	}
	if err := service.sessions.Create(&session); err != nil {
		// Persistence failure must not block the start flow; keep the
		// session in memory and let the user proceed.
		log.Printf("fasting session create failed, continuing with ephemeral session: %v", err)
		service.storeEphemeral(&session)
	}
	return session, nil
}

// CurrentSession returns the user's single active session, or nil.
func (service *FastingService) CurrentSession(userID uint) (*models.FastingSession, error) {
	session, found, err := service.sessions.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, db.ErrNotProvisioned) {
			return service.activeEphemeral(userID), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionLoadFailed, err)
	}
	if found {
		return &session, nil
	}
	return service.activeEphemeral(userID), nil
}

type GuidanceTelemetry struct {
	Symptoms    []string
	Glucose     *float64
	EnergyLevel *int
}

type RealTimeGuidance struct {
	SessionID      string         `json:"session_id"`
	Phase          string         `json:"phase"`
	PhaseGuidance  string         `json:"phase_guidance"`
	HoursElapsed   float64        `json:"hours_elapsed"`
	HoursRemaining float64        `json:"hours_remaining"`
	Risk           RiskAssessment `json:"risk"`
	NextMilestone  *Milestone     `json:"next_milestone,omitempty"`
}

// RealTimeGuidance combines phase guidance, risk evaluation, and the next
// milestone for the polling client. It never mutates the session, so
// duplicate polls are safe.
func (service *FastingService) RealTimeGuidance(userID uint, sessionID string, telemetry GuidanceTelemetry) (RealTimeGuidance, error) {
	session, _, err := service.loadSession(userID, sessionID)
	if err != nil {
		return RealTimeGuidance{}, err
	}

	now := service.now()
	elapsed := now.Sub(session.StartTime).Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := session.PlannedEndTime.Sub(now).Hours()
	if remaining < 0 {
		remaining = 0
	}

	phase := AdvancePhase(session.CurrentPhase, elapsed)
	risk := EvaluateRisk(TelemetrySample{
		Symptoms:     telemetry.Symptoms,
		Glucose:      telemetry.Glucose,
		EnergyLevel:  telemetry.EnergyLevel,
		HoursElapsed: elapsed,
	})

	guidance := RealTimeGuidance{
		SessionID:      session.ID,
		Phase:          phase,
		PhaseGuidance:  PhaseGuidance(phase),
		HoursElapsed:   elapsed,
		HoursRemaining: remaining,
		Risk:           risk,
	}
	if milestone, ok := NextMilestone(elapsed); ok {
		guidance.NextMilestone = &milestone
	}
	return guidance, nil
}

// RefreshPhase advances the persisted phase to match elapsed time. Phases
// never move backward.
func (service *FastingService) RefreshPhase(userID uint, sessionID string) (models.FastingSession, error) {
	session, isEphemeral, err := service.loadSession(userID, sessionID)
	if err != nil {
		return models.FastingSession{}, err
	}
	if session.Terminal() {
		return models.FastingSession{}, ErrSessionNotActive
	}

	elapsed := service.now().Sub(session.StartTime).Hours()
	phase := AdvancePhase(session.CurrentPhase, elapsed)
	if phase == session.CurrentPhase {
		return session, nil
	}

	session.CurrentPhase = phase
	if err := service.persistSession(&session, isEphemeral); err != nil {
		return models.FastingSession{}, err
	}
	return session, nil
}

// LogSymptom analyzes and records a symptom report. The analyzer verdict
// goes back to the caller even when persisting the record fails: a storage
// problem must not swallow a safety recommendation.
func (service *FastingService) LogSymptom(userID uint, sessionID string, report SymptomReport) (models.FastingSymptom, SymptomVerdict, error) {
	verdict := AnalyzeSymptom(report)

	session, isEphemeral, err := service.loadSession(userID, sessionID)
	if err != nil {
		return models.FastingSymptom{}, verdict, err
	}
	if session.Terminal() {
		return models.FastingSymptom{}, verdict, ErrSessionNotActive
	}

	symptom := models.FastingSymptom{
		SessionID:        session.ID,
		UserID:           userID,
		Type:             strings.ToLower(strings.TrimSpace(report.Type)),
		Severity:         report.Severity,
		Description:      report.Description,
		HoursIntoFast:    report.HoursIntoFast,
		Glucose:          report.Glucose,
		Recommendation:   verdict.Recommendation,
		Intervention:     verdict.InterventionNeeded,
		InterventionType: verdict.InterventionType,
		CreatedAt:        service.now(),
	}

	if isEphemeral {
		service.appendSymptom(symptom)
	} else if err := service.symptoms.Create(&symptom); err != nil {
		log.Printf("fasting symptom create failed: %v", err)
		service.appendSymptom(symptom)
	}

	service.refreshRiskLevel(&session, isEphemeral)
	return symptom, verdict, nil
}

func (service *FastingService) SessionSymptoms(userID uint, sessionID string) ([]models.FastingSymptom, error) {
	session, isEphemeral, err := service.loadSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if isEphemeral {
		return service.symptomsFor(session.ID), nil
	}

	symptoms, err := service.symptoms.ListBySession(session.ID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotProvisioned) {
			return service.symptomsFor(session.ID), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrSymptomListFailed, err)
	}
	return symptoms, nil
}

type EndMeasurements struct {
	Glucose          *float64
	Weight           *float64
	EnergyLevel      *int
	Mood             *int
	SuccessRating    *int
	DifficultyRating *int
	Notes            string
}

func (service *FastingService) CompleteSession(userID uint, sessionID string, end EndMeasurements) (models.FastingSession, error) {
	return service.finishSession(userID, sessionID, models.SessionStatusCompleted, "", end)
}

func (service *FastingService) BreakSession(userID uint, sessionID string, reason string, end EndMeasurements) (models.FastingSession, error) {
	return service.finishSession(userID, sessionID, models.SessionStatusBroken, strings.TrimSpace(reason), end)
}

// History returns past sessions, newest first. A missing backing table
// reads as an empty history rather than an error.
func (service *FastingService) History(userID uint, limit int) ([]models.FastingSession, error) {
	sessions, err := service.sessions.ListByUser(userID, limit)
	if err != nil {
		if errors.Is(err, db.ErrNotProvisioned) {
			return []models.FastingSession{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionLoadFailed, err)
	}
	return sessions, nil
}

func (service *FastingService) finishSession(userID uint, sessionID string, status string, reason string, end EndMeasurements) (models.FastingSession, error) {
	session, isEphemeral, err := service.loadSession(userID, sessionID)
	if err != nil {
		return models.FastingSession{}, err
	}
	if session.Terminal() {
		// Terminal sessions are frozen: neither status nor phase may
		// change again.
		return models.FastingSession{}, ErrSessionNotActive
	}

	now := service.now()
	session.Status = status
	session.ActualEndTime = &now
	session.BreakReason = reason
	session.EndGlucose = end.Glucose
	session.EndWeight = end.Weight
	session.EndEnergyLevel = end.EnergyLevel
	session.EndMood = end.Mood
	session.SuccessRating = end.SuccessRating
	session.DifficultyRating = end.DifficultyRating
	if strings.TrimSpace(end.Notes) != "" {
		session.Notes = strings.TrimSpace(end.Notes)
	}

	if err := service.persistSession(&session, isEphemeral); err != nil {
		return models.FastingSession{}, err
	}
	return session, nil
}

func (service *FastingService) loadSession(userID uint, sessionID string) (models.FastingSession, bool, error) {
	session, found, err := service.sessions.FindByIDForUser(sessionID, userID)
	if err != nil && !errors.Is(err, db.ErrNotProvisioned) {
		return models.FastingSession{}, false, fmt.Errorf("%w: %v", ErrSessionLoadFailed, err)
	}
	if err == nil && found {
		return session, false, nil
	}
	if ephemeral := service.findEphemeral(userID, sessionID); ephemeral != nil {
		return *ephemeral, true, nil
	}
	return models.FastingSession{}, false, ErrSessionNotFound
}

func (service *FastingService) persistSession(session *models.FastingSession, isEphemeral bool) error {
	session.UpdatedAt = service.now()
	if isEphemeral {
		service.storeEphemeral(session)
		return nil
	}
	if err := service.sessions.Save(session); err != nil {
		if errors.Is(err, db.ErrNotProvisioned) {
			service.storeEphemeral(session)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrSessionSaveFailed, err)
	}
	return nil
}

func (service *FastingService) refreshRiskLevel(session *models.FastingSession, isEphemeral bool) {
	types := make([]string, 0)
	if isEphemeral {
		for _, symptom := range service.symptomsFor(session.ID) {
			types = append(types, symptom.Type)
		}
	} else {
		symptoms, err := service.symptoms.ListBySession(session.ID, session.UserID)
		if err != nil {
			if !errors.Is(err, db.ErrNotProvisioned) {
				log.Printf("risk refresh symptom list failed: %v", err)
			}
			for _, symptom := range service.symptomsFor(session.ID) {
				types = append(types, symptom.Type)
			}
		} else {
			for _, symptom := range symptoms {
				types = append(types, symptom.Type)
			}
		}
	}

	elapsed := service.now().Sub(session.StartTime).Hours()
	risk := EvaluateRisk(TelemetrySample{Symptoms: types, HoursElapsed: elapsed})
	if risk.Level == session.RiskLevel {
		return
	}

	session.RiskLevel = risk.Level
	if err := service.persistSession(session, isEphemeral); err != nil {
		log.Printf("risk level update failed: %v", err)
	}
}

func (service *FastingService) storeEphemeral(session *models.FastingSession) {
	service.mu.Lock()
	defer service.mu.Unlock()
	stored := *session
	service.ephemeral[session.UserID] = &stored
}

func (service *FastingService) activeEphemeral(userID uint) *models.FastingSession {
	service.mu.RLock()
	defer service.mu.RUnlock()
	session := service.ephemeral[userID]
	if session == nil || session.Terminal() {
		return nil
	}
	found := *session
	return &found
}

func (service *FastingService) findEphemeral(userID uint, sessionID string) *models.FastingSession {
	service.mu.RLock()
	defer service.mu.RUnlock()
	session := service.ephemeral[userID]
	if session == nil || session.ID != sessionID {
		return nil
	}
	found := *session
	return &found
}

func (service *FastingService) appendSymptom(symptom models.FastingSymptom) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.symptomLog[symptom.SessionID] = append(service.symptomLog[symptom.SessionID], symptom)
}

func (service *FastingService) symptomsFor(sessionID string) []models.FastingSymptom {
	service.mu.RLock()
	defer service.mu.RUnlock()
	return append([]models.FastingSymptom{}, service.symptomLog[sessionID]...)
}
