package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncPhaseTransition("break")
	pr.IncSessionRecorded(true)
	pr.IncSessionRecorded(false)
	pr.IncAchievementUnlocked("first-step")
	pr.AddTrackedTime(90 * time.Second)
	pr.IncCommand("pomodoroPause", "applied")
	pr.IncExport("daily", "csv", "empty")
	pr.ObserveTickDuration(2 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}

	if got := testutil.ToFloat64(pr.sessions.WithLabelValues("interrupted")); got != 1 {
		t.Errorf("interrupted sessions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(pr.trackedSeconds); got != 90 {
		t.Errorf("tracked seconds = %v, want 90", got)
	}
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncPhaseTransition("work")
	pr.AddTrackedTime(time.Second)
	pr.ObserveTickDuration(time.Second)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncAchievementUnlocked("guardian")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `focusos_achievements_unlocked_total{id="guardian"} 1`) {
		t.Errorf("metrics output missing counter:\n%s", rec.Body.String())
	}
}

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(NoopRecorder); !ok {
		t.Error("OrNoop(nil) should return NoopRecorder")
	}
	pr := NewPrometheusRecorder(nil)
	if OrNoop(pr) != Recorder(pr) {
		t.Error("OrNoop should pass through a non-nil recorder")
	}
}
