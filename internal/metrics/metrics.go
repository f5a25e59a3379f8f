// Package metrics exposes game counters to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the game collectors. A nil *Metrics is valid and records
// nothing, so hosts without a metrics endpoint pass nil.
type Metrics struct {
	registry *prometheus.Registry

	runsStarted   *prometheus.CounterVec
	levelVerdicts *prometheus.CounterVec
	runOutcomes   *prometheus.CounterVec
	finalScores   *prometheus.HistogramVec
	submissions   *prometheus.CounterVec
	sessions      prometheus.Gauge
}

// New creates a registry with the Go and process collectors plus the game
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clicker_runs_started_total",
			Help: "Runs started, by game id.",
		}, []string{"game"}),
		levelVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clicker_level_verdicts_total",
			Help: "Banner submissions, by level and verdict.",
		}, []string{"level", "verdict"}),
		runOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clicker_run_outcomes_total",
			Help: "Finished runs, by game id and outcome.",
		}, []string{"game", "outcome"}),
		finalScores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clicker_final_score",
			Help:    "Final run scores.",
			Buckets: []float64{0, 100, 250, 500, 1000, 1500, 2500, 4000, 6000},
		}, []string{"game"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clicker_leaderboard_submissions_total",
			Help: "Leaderboard submissions, by result.",
		}, []string{"result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clicker_ssh_sessions",
			Help: "Open SSH game sessions.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runsStarted,
		m.levelVerdicts,
		m.runOutcomes,
		m.finalScores,
		m.submissions,
		m.sessions,
	)
	return m
}

// Registry returns the registry backing the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RunStarted(game string) {
	if m == nil {
		return
	}
	m.runsStarted.WithLabelValues(game).Inc()
}

func (m *Metrics) LevelVerdict(level int, verdict string) {
	if m == nil {
		return
	}
	m.levelVerdicts.WithLabelValues(strconv.Itoa(level), verdict).Inc()
}

// RunFinished records the outcome ("completed", "failed" or "abandoned")
// and the final score.
func (m *Metrics) RunFinished(game, outcome string, score int) {
	if m == nil {
		return
	}
	m.runOutcomes.WithLabelValues(game, outcome).Inc()
	m.finalScores.WithLabelValues(game).Observe(float64(score))
}

// Submission records a leaderboard result: "created", "improved",
// "rejected" or "error".
func (m *Metrics) Submission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}
