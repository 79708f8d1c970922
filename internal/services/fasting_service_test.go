package services

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/YahyaMS/sukari/internal/db"
	"github.com/YahyaMS/sukari/internal/models"
)

type fakeSessionRepository struct {
	sessions map[string]models.FastingSession
	failWith error
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]models.FastingSession)}
}

func (repository *fakeSessionRepository) FindActiveByUser(userID uint) (models.FastingSession, bool, error) {
	if repository.failWith != nil {
		return models.FastingSession{}, false, repository.failWith
	}
	for _, session := range repository.sessions {
		if session.UserID == userID && session.Status == models.SessionStatusActive {
			return session, true, nil
		}
	}
	return models.FastingSession{}, false, nil
}

func (repository *fakeSessionRepository) FindByIDForUser(sessionID string, userID uint) (models.FastingSession, bool, error) {
	if repository.failWith != nil {
		return models.FastingSession{}, false, repository.failWith
	}
	session, ok := repository.sessions[sessionID]
	if !ok || session.UserID != userID {
		return models.FastingSession{}, false, nil
	}
	return session, true, nil
}

func (repository *fakeSessionRepository) Create(session *models.FastingSession) error {
	if repository.failWith != nil {
		return repository.failWith
	}
	repository.sessions[session.ID] = *session
	return nil
}

func (repository *fakeSessionRepository) Save(session *models.FastingSession) error {
	if repository.failWith != nil {
		return repository.failWith
	}
	repository.sessions[session.ID] = *session
	return nil
}

func (repository *fakeSessionRepository) ListByUser(userID uint, limit int) ([]models.FastingSession, error) {
	if repository.failWith != nil {
		return nil, repository.failWith
	}
	result := make([]models.FastingSession, 0)
	for _, session := range repository.sessions {
		if session.UserID == userID {
			result = append(result, session)
		}
	}
	sort.Slice(result, func(left, right int) bool {
		return result[left].StartTime.After(result[right].StartTime)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type fakeSymptomRepository struct {
	symptoms []models.FastingSymptom
	failWith error
}

func (repository *fakeSymptomRepository) Create(symptom *models.FastingSymptom) error {
	if repository.failWith != nil {
		return repository.failWith
	}
	symptom.ID = uint(len(repository.symptoms) + 1)
	repository.symptoms = append(repository.symptoms, *symptom)
	return nil
}

func (repository *fakeSymptomRepository) ListBySession(sessionID string, userID uint) ([]models.FastingSymptom, error) {
	if repository.failWith != nil {
		return nil, repository.failWith
	}
	result := make([]models.FastingSymptom, 0)
	for _, symptom := range repository.symptoms {
		if symptom.SessionID == sessionID && symptom.UserID == userID {
			result = append(result, symptom)
		}
	}
	return result, nil
}

type fastingFixture struct {
	service  *FastingService
	sessions *fakeSessionRepository
	symptoms *fakeSymptomRepository
	now      time.Time
}

func newFastingFixture(t *testing.T) *fastingFixture {
	t.Helper()
	fixture := &fastingFixture{
		sessions: newFakeSessionRepository(),
		symptoms: &fakeSymptomRepository{},
		now:      time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC),
	}
	fixture.service = NewFastingService(fixture.sessions, fixture.symptoms)
	fixture.service.now = func() time.Time { return fixture.now }
	return fixture
}

func (fixture *fastingFixture) advance(duration time.Duration) {
	fixture.now = fixture.now.Add(duration)
}

func notProvisionedErr(table string) error {
	return fmt.Errorf("%w: no such table: %s", db.ErrNotProvisioned, table)
}

func TestStartSession_DefaultsAndPersists(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	session, err := fixture.service.StartSession(1, StartSessionInput{
		PlanType:       "16:8",
		Baseline:       SessionBaseline{Glucose: floatPtr(95)},
		ReadinessScore: 88,
	})
	if err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	if session.ID == "" {
		t.Fatalf("expected a generated session id")
	}
	if session.PlannedHours != 16 {
		t.Fatalf("expected plan default of 16 hours, got %d", session.PlannedHours)
	}
	if session.Status != models.SessionStatusActive || session.CurrentPhase != models.PhasePreparation {
		t.Fatalf("expected active/preparation, got %s/%s", session.Status, session.CurrentPhase)
	}
	if !session.PlannedEndTime.Equal(session.StartTime.Add(16 * time.Hour)) {
		t.Fatalf("expected planned end 16 hours after start")
	}
	if session.Recommendations.Hydration == "" || session.Guidance == "" {
		t.Fatalf("expected recommendations and guidance to be populated")
	}
	if _, ok := fixture.sessions.sessions[session.ID]; !ok {
		t.Fatalf("expected session to be persisted")
	}
}

func TestStartSession_RejectsUnknownPlan(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	if _, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "5:2"}); !errors.Is(err, ErrUnknownFastingPlan) {
		t.Fatalf("expected ErrUnknownFastingPlan, got %v", err)
	}
}

func TestStartSession_RejectsSecondActive(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	if _, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "16:8"}); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if _, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "18:6"}); !errors.Is(err, ErrActiveSessionExists) {
		t.Fatalf("expected ErrActiveSessionExists, got %v", err)
	}

	// A different user is unaffected.
	if _, err := fixture.service.StartSession(2, StartSessionInput{PlanType: "16:8"}); err != nil {
		t.Fatalf("expected other user to start freely, got %v", err)
	}
}

func TestCurrentSession(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	current, err := fixture.service.CurrentSession(1)
	if err != nil || current != nil {
		t.Fatalf("expected nil session before start, got %v err=%v", current, err)
	}

	started, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "16:8"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	current, err = fixture.service.CurrentSession(1)
	if err != nil || current == nil || current.ID != started.ID {
		t.Fatalf("expected the started session, got %v err=%v", current, err)
	}
}

func TestRefreshPhase_AdvancesMonotonically(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	started, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "extended"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	fixture.advance(13 * time.Hour)
	session, err := fixture.service.RefreshPhase(1, started.ID)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if session.CurrentPhase != models.PhaseAdaptation {
		t.Fatalf("expected adaptation at 13 hours, got %q", session.CurrentPhase)
	}
	if fixture.sessions.sessions[started.ID].CurrentPhase != models.PhaseAdaptation {
		t.Fatalf("expected phase advance to be persisted")
	}

	// Refreshing again at the same elapsed time is a no-op.
	session, err = fixture.service.RefreshPhase(1, started.ID)
	if err != nil || session.CurrentPhase != models.PhaseAdaptation {
		t.Fatalf("expected stable phase, got %q err=%v", session.CurrentPhase, err)
	}
}

func TestRealTimeGuidance(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	started, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "extended"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	fixture.advance(14 * time.Hour)
	guidance, err := fixture.service.RealTimeGuidance(1, started.ID, GuidanceTelemetry{
		Symptoms: []string{"dizziness"},
		Glucose:  floatPtr(55),
	})
	if err != nil {
		t.Fatalf("guidance failed: %v", err)
	}
	if guidance.HoursElapsed != 14 {
		t.Fatalf("expected 14 hours elapsed, got %v", guidance.HoursElapsed)
	}
	if guidance.HoursRemaining != 22 {
		t.Fatalf("expected 22 hours remaining, got %v", guidance.HoursRemaining)
	}
	if guidance.Phase != models.PhaseAdaptation {
		t.Fatalf("expected adaptation phase, got %q", guidance.Phase)
	}
	if guidance.PhaseGuidance == "" {
		t.Fatalf("expected phase guidance text")
	}
	if guidance.Risk.CanContinue {
		t.Fatalf("expected continuation veto at glucose 55")
	}
	if guidance.NextMilestone == nil || guidance.NextMilestone.Name != "autophagy" {
		t.Fatalf("expected autophagy milestone next, got %+v", guidance.NextMilestone)
	}

	// Guidance is read-only: the persisted phase stays where it was.
	if fixture.sessions.sessions[started.ID].CurrentPhase != models.PhasePreparation {
		t.Fatalf("expected persisted phase untouched by guidance")
	}
}

func TestRealTimeGuidance_ClampsRemainingAtZero(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	started, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "16:8"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	fixture.advance(20 * time.Hour)
	guidance, err := fixture.service.RealTimeGuidance(1, started.ID, GuidanceTelemetry{})
	if err != nil {
		t.Fatalf("guidance failed: %v", err)
	}
	if guidance.HoursRemaining != 0 {
		t.Fatalf("expected remaining clamped to zero, got %v", guidance.HoursRemaining)
	}
}

func TestLogSymptom_RecordsAndRefreshesRisk(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	started, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "16:8"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	fixture.advance(6 * time.Hour)
	symptom, verdict, err := fixture.service.LogSymptom(1, started.ID, SymptomReport{Type: "Headache", Severity: 8, HoursIntoFast: 6})
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if !verdict.InterventionNeeded || verdict.InterventionType != InterventionBreakFast {
		t.Fatalf("expected break_fast verdict, got %+v", verdict)
	}
	if symptom.Type != "headache" {
		t.Fatalf("expected normalized type, got %q", symptom.Type)
	}
	if symptom.Recommendation != verdict.Recommendation || !symptom.Intervention {
		t.Fatalf("expected verdict copied onto the stored record")
	}
	if len(fixture.symptoms.symptoms) != 1 {
		t.Fatalf("expected one persisted symptom, got %d", len(fixture.symptoms.symptoms))
	}

	// Two more symptoms push the additive score over the medium cutoff.
	if _, _, err := fixture.service.LogSymptom(1, started.ID, SymptomReport{Type: "dizziness", Severity: 4}); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if _, _, err := fixture.service.LogSymptom(1, started.ID, SymptomReport{Type: "nausea", Severity: 3}); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if got := fixture.sessions.sessions[started.ID].RiskLevel; got != models.RiskMedium {
		t.Fatalf("expected session risk raised to medium, got %q", got)
	}

	listed, err := fixture.service.SessionSymptoms(1, started.ID)
	if err != nil || len(listed) != 3 {
		t.Fatalf("expected 3 symptoms listed, got %d err=%v", len(listed), err)
	}
}

func TestCompleteSession_SetsEndState(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	started, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "16:8"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	fixture.advance(16 * time.Hour)
	session, err := fixture.service.CompleteSession(1, started.ID, EndMeasurements{
		Glucose:       floatPtr(90),
		SuccessRating: intPtr(5),
		Notes:         "  felt great  ",
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if session.Status != models.SessionStatusCompleted {
		t.Fatalf("expected completed status, got %q", session.Status)
	}
	if session.ActualEndTime == nil || !session.ActualEndTime.Equal(fixture.now) {
		t.Fatalf("expected actual end time set to now")
	}
	if session.Notes != "felt great" {
		t.Fatalf("expected trimmed notes, got %q", session.Notes)
	}

	current, err := fixture.service.CurrentSession(1)
	if err != nil || current != nil {
		t.Fatalf("expected no active session after completion, got %v err=%v", current, err)
	}
}

func TestBreakSession_RecordsReason(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	started, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "18:6"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	session, err := fixture.service.BreakSession(1, started.ID, " severe headache ", EndMeasurements{})
	if err != nil {
		t.Fatalf("break failed: %v", err)
	}
	if session.Status != models.SessionStatusBroken {
		t.Fatalf("expected broken status, got %q", session.Status)
	}
	if session.BreakReason != "severe headache" {
		t.Fatalf("expected trimmed break reason, got %q", session.BreakReason)
	}
}

func TestTerminalSessionsAreFrozen(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	started, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "16:8"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fixture.service.CompleteSession(1, started.ID, EndMeasurements{}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if _, err := fixture.service.CompleteSession(1, started.ID, EndMeasurements{}); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive on double complete, got %v", err)
	}
	if _, err := fixture.service.BreakSession(1, started.ID, "late", EndMeasurements{}); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive on break after complete, got %v", err)
	}
	if _, err := fixture.service.RefreshPhase(1, started.ID); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive on phase refresh, got %v", err)
	}
	if _, _, err := fixture.service.LogSymptom(1, started.ID, SymptomReport{Type: "nausea", Severity: 3}); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive on symptom log, got %v", err)
	}

	stored := fixture.sessions.sessions[started.ID]
	if stored.Status != models.SessionStatusCompleted {
		t.Fatalf("expected status frozen at completed, got %q", stored.Status)
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)

	first, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "16:8"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	fixture.advance(16 * time.Hour)
	if _, err := fixture.service.CompleteSession(1, first.ID, EndMeasurements{}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	fixture.advance(8 * time.Hour)
	second, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "18:6"})
	if err != nil {
		t.Fatalf("second start failed: %v", err)
	}

	history, err := fixture.service.History(1, 10)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(history))
	}
	if history[0].ID != second.ID {
		t.Fatalf("expected newest session first")
	}
}

func TestFallbackSafety_MissingBackingTables(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)
	fixture.sessions.failWith = notProvisionedErr("fasting_sessions")
	fixture.symptoms.failWith = notProvisionedErr("fasting_symptoms")

	session, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "16:8", ReadinessScore: 75})
	if err != nil {
		t.Fatalf("expected ephemeral start to succeed, got %v", err)
	}
	if session.ID == "" || session.Status != models.SessionStatusActive {
		t.Fatalf("expected a full ephemeral session, got %+v", session)
	}

	// The one-active invariant holds in memory too.
	if _, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "18:6"}); !errors.Is(err, ErrActiveSessionExists) {
		t.Fatalf("expected ErrActiveSessionExists for ephemeral active, got %v", err)
	}

	current, err := fixture.service.CurrentSession(1)
	if err != nil || current == nil || current.ID != session.ID {
		t.Fatalf("expected ephemeral session as current, got %v err=%v", current, err)
	}

	fixture.advance(13 * time.Hour)
	refreshed, err := fixture.service.RefreshPhase(1, session.ID)
	if err != nil || refreshed.CurrentPhase != models.PhaseAdaptation {
		t.Fatalf("expected ephemeral phase advance, got %q err=%v", refreshed.CurrentPhase, err)
	}

	_, verdict, err := fixture.service.LogSymptom(1, session.ID, SymptomReport{Type: "headache", Severity: 8})
	if err != nil {
		t.Fatalf("expected ephemeral symptom log to succeed, got %v", err)
	}
	if !verdict.InterventionNeeded {
		t.Fatalf("expected verdict despite storage failure")
	}

	symptoms, err := fixture.service.SessionSymptoms(1, session.ID)
	if err != nil || len(symptoms) != 1 {
		t.Fatalf("expected 1 ephemeral symptom, got %d err=%v", len(symptoms), err)
	}

	history, err := fixture.service.History(1, 10)
	if err != nil || len(history) != 0 {
		t.Fatalf("expected empty history without a backing table, got %d err=%v", len(history), err)
	}

	if _, err := fixture.service.CompleteSession(1, session.ID, EndMeasurements{}); err != nil {
		t.Fatalf("expected ephemeral completion to succeed, got %v", err)
	}
	current, err = fixture.service.CurrentSession(1)
	if err != nil || current != nil {
		t.Fatalf("expected no current session after ephemeral completion, got %v err=%v", current, err)
	}
}

func TestStartSession_FallsBackWhenCreateFails(t *testing.T) {
	t.Parallel()
	fixture := newFastingFixture(t)
	fixture.sessions.failWith = nil

	// Lookup succeeds against an empty store, then the insert blows up.
	brokenCreate := &createFailingSessionRepository{fakeSessionRepository: fixture.sessions}
	fixture.service.sessions = brokenCreate

	session, err := fixture.service.StartSession(1, StartSessionInput{PlanType: "16:8"})
	if err != nil {
		t.Fatalf("expected degraded start to succeed, got %v", err)
	}

	current, err := fixture.service.CurrentSession(1)
	if err != nil || current == nil || current.ID != session.ID {
		t.Fatalf("expected ephemeral session to survive the failed insert, got %v err=%v", current, err)
	}
}

type createFailingSessionRepository struct {
	*fakeSessionRepository
}

func (repository *createFailingSessionRepository) Create(session *models.FastingSession) error {
	return errors.New("disk I/O error")
}
