package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	r.ObserveEvaluation(-10000)
	r.ObserveEvaluation(-10500)
	r.ObserveCollectorRequest("yahoo", nil)
	r.ObserveCollectorRequest("yahoo", errors.New("boom"))
	r.ObserveBacktest("momentum")
	r.ObserveRunDuration(3 * time.Second)

	families, err := r.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}

	for _, name := range []string{
		"tristrat_objective_evaluations_total",
		"tristrat_best_cost",
		"tristrat_collector_requests_total",
		"tristrat_backtests_total",
		"tristrat_run_duration_seconds",
	} {
		if !found[name] {
			t.Errorf("metric %s not gathered", name)
		}
	}
}

func TestNilRegistrySafe(t *testing.T) {
	var r *Registry

	// Must not panic.
	r.ObserveEvaluation(0)
	r.ObserveCollectorRequest("yahoo", nil)
	r.ObserveBacktest("momentum")
	r.ObserveRunDuration(time.Second)
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.ObserveEvaluation(-9000)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected metrics output")
	}
}
