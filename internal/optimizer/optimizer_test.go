package optimizer

import (
	"testing"

	"github.com/quantora/tristrat/internal/metrics"
)

func TestRun_StaysInBounds(t *testing.T) {
	obj := newTestObjective(t, waveSeries(400), DefaultBounds())

	result, err := New(obj, Options{}).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	bounds := DefaultBounds().Intervals()
	vector := result.Params.Vector()
	for i, iv := range bounds {
		if !iv.Contains(vector[i]) {
			t.Errorf("param %d = %g outside [%g, %g]", i, vector[i], iv.Min, iv.Max)
		}
	}

	if result.Evaluations == 0 {
		t.Error("expected at least one objective evaluation")
	}
	if result.Status == "" {
		t.Error("expected a termination status")
	}
}

func TestRun_Deterministic(t *testing.T) {
	series := waveSeries(400)

	first, err := New(newTestObjective(t, series, DefaultBounds()), Options{}).Run()
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := New(newTestObjective(t, series, DefaultBounds()), Options{}).Run()
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if first.Params != second.Params {
		t.Errorf("params differ: %s vs %s", first.Params, second.Params)
	}
	if first.AvgTerminalEquity != second.AvgTerminalEquity {
		t.Errorf("equity differs: %v vs %v", first.AvgTerminalEquity, second.AvgTerminalEquity)
	}
	if first.Evaluations != second.Evaluations {
		t.Errorf("evaluation counts differ: %d vs %d", first.Evaluations, second.Evaluations)
	}
}

func TestRun_NoWorseThanStart(t *testing.T) {
	obj := newTestObjective(t, waveSeries(400), DefaultBounds())

	startEquity, err := obj.AverageTerminalEquity(FromVector(DefaultStart()))
	if err != nil {
		t.Fatalf("AverageTerminalEquity: %v", err)
	}

	result, err := New(obj, Options{}).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// A local search from the fixed start can do no worse than it.
	if result.AvgTerminalEquity < startEquity {
		t.Errorf("optimized equity %v below start equity %v", result.AvgTerminalEquity, startEquity)
	}
}

func TestRun_ShortSeriesStillFinite(t *testing.T) {
	// Windows exceed the series everywhere in the box: the search sees a
	// constant finite objective and must still return a usable point.
	obj := newTestObjective(t, testSeries(100, 101, 102, 103, 104, 105), DefaultBounds())

	result, err := New(obj, Options{}).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.AvgTerminalEquity != 10_000 {
		t.Errorf("AvgTerminalEquity = %v, want 10000 on an all-flat run", result.AvgTerminalEquity)
	}
}

func TestRun_WithMetrics(t *testing.T) {
	obj := newTestObjective(t, waveSeries(300), DefaultBounds())
	reg := metrics.NewRegistry()

	if _, err := New(obj, Options{Metrics: reg}).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	for _, f := range families {
		if f.GetName() == "tristrat_objective_evaluations_total" {
			if f.GetMetric()[0].GetCounter().GetValue() == 0 {
				t.Error("expected objective evaluations to be counted")
			}
			return
		}
	}
	t.Error("evaluation counter not gathered")
}

func TestRun_MaxIterations(t *testing.T) {
	obj := newTestObjective(t, waveSeries(300), DefaultBounds())

	result, err := New(obj, Options{MaxIterations: 3}).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Cutting the search short is not an error; the best point attained
	// is accepted and the truncated status surfaced.
	if result.Converged {
		t.Error("expected Converged=false at 3 iterations")
	}
}
