// Package metrics collects and exposes Prometheus metrics for the
// fasting session lifecycle.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service and API layers record through.
type Recorder interface {
	RecordSessionStarted(planType string)
	RecordSessionCompleted()
	RecordSessionBroken()
	RecordSymptomReport(symptomType string)
	RecordIntervention(interventionType string)
	RecordReadinessCheck(canStart bool)
}

// Collector implements Recorder on top of a Prometheus registry.
type Collector struct {
	sessionsStarted   *prometheus.CounterVec
	sessionsCompleted prometheus.Counter
	sessionsBroken    prometheus.Counter
	symptomReports    *prometheus.CounterVec
	interventions     *prometheus.CounterVec
	readinessChecks   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sukari_sessions_started_total",
			Help: "Fasting sessions started, by plan type.",
		}, []string{"plan_type"}),
		sessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sukari_sessions_completed_total",
			Help: "Fasting sessions completed as planned.",
		}),
		sessionsBroken: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sukari_sessions_broken_total",
			Help: "Fasting sessions ended before the planned duration.",
		}),
		symptomReports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sukari_symptom_reports_total",
			Help: "Symptom reports logged during fasts, by symptom type.",
		}, []string{"type"}),
		interventions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sukari_interventions_total",
			Help: "Symptom reports that triggered an intervention, by intervention type.",
		}, []string{"intervention_type"}),
		readinessChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sukari_readiness_checks_total",
			Help: "Pre-fast readiness checks, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.sessionsStarted,
		c.sessionsCompleted,
		c.sessionsBroken,
		c.symptomReports,
		c.interventions,
		c.readinessChecks,
	)

	return c
}

func (c *Collector) RecordSessionStarted(planType string) {
	c.sessionsStarted.WithLabelValues(planType).Inc()
}

func (c *Collector) RecordSessionCompleted() {
	c.sessionsCompleted.Inc()
}

func (c *Collector) RecordSessionBroken() {
	c.sessionsBroken.Inc()
}

func (c *Collector) RecordSymptomReport(symptomType string) {
	c.symptomReports.WithLabelValues(symptomType).Inc()
}

func (c *Collector) RecordIntervention(interventionType string) {
	c.interventions.WithLabelValues(interventionType).Inc()
}

func (c *Collector) RecordReadinessCheck(canStart bool) {
	outcome := "blocked"
	if canStart {
		outcome = "cleared"
	}
	c.readinessChecks.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
