package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RunStarted("cookiebanner")
	m.LevelVerdict(1, "PASS")
	m.RunFinished("cookiebanner", "failed", 10)
	m.Submission("created")
	m.SessionOpened()
	m.SessionClosed()
	if m.Registry() != nil {
		t.Error("nil metrics should have no registry")
	}
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestCounters(t *testing.T) {
	m := New()
	m.RunStarted("cookiebanner")
	m.RunStarted("cookiebanner")
	m.LevelVerdict(3, "FAIL")
	m.RunFinished("cookiebanner", "completed", 5000)
	m.SessionOpened()

	out := scrape(t, m)
	for _, want := range []string{
		`clicker_runs_started_total{game="cookiebanner"} 2`,
		`clicker_level_verdicts_total{level="3",verdict="FAIL"} 1`,
		`clicker_run_outcomes_total{game="cookiebanner",outcome="completed"} 1`,
		`clicker_final_score_count{game="cookiebanner"} 1`,
		`clicker_ssh_sessions 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestServerExposesMetrics(t *testing.T) {
	m := New()
	m.Submission("created")

	srv := NewServer("127.0.0.1:0", "", m, log.New(io.Discard))
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer srv.Shutdown(context.Background())

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `clicker_leaderboard_submissions_total{result="created"} 1`) {
		t.Errorf("metrics output missing submission counter:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("metrics output missing Go collector")
	}
}
