package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", 200, time.Millisecond)
	m.ObserveSync("synced")
	m.IncRealtimeDropped("gamification.sync")
	if m := NewMetrics(false, nil); m != nil {
		t.Fatalf("disabled metrics should be nil")
	}
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: want=503 got=%d", rec.Code)
	}
}

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics(true, nil)
	m.ObserveAPI("POST", "/api/gamification/games/:gameId/complete", 200, 30*time.Millisecond)
	m.ObserveSync("synced")
	m.ObserveSync("synced")
	m.ObserveSync("failed")
	m.ObservePublish("gamification.progress", errors.New("redis down"))
	m.IncGameCompletion("risk-hunt")

	if got := m.syncResults.Value("synced"); got != 2 {
		t.Fatalf("synced: want=2 got=%v", got)
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`integrity_progress_sync_total{state="failed"} 1`,
		`integrity_progress_sync_total{state="synced"} 2`,
		`integrity_realtime_published_total{event="gamification.progress",status="error"} 1`,
		`integrity_api_request_duration_seconds_bucket{method="POST",route="/api/gamification/games/:gameId/complete",le="0.05"} 1`,
		`integrity_api_request_duration_seconds_count{method="POST",route="/api/gamification/games/:gameId/complete"} 1`,
		`# TYPE integrity_game_completions_total counter`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in\n%s", want, body)
		}
	}
}
