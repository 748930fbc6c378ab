package indicator

import (
	"math"
	"testing"
)

func TestMean_ExpandingHead(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	mean := Mean(prices, 3)

	// First two points average the available history:
	// [0] = 10, [1] = (10+11)/2 = 10.5, then full windows.
	expected := []float64{10, 10.5, 11, 12, 13, 14}

	if len(mean) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(mean))
	}
	for i, v := range expected {
		if mean[i] != v {
			t.Errorf("mean[%d] = %f, want %f", i, mean[i], v)
		}
	}
}

func TestMean_WindowLargerThanSeries(t *testing.T) {
	prices := []float64{10, 20}

	mean := Mean(prices, 5)

	// Every point still defined from the expanding head.
	expected := []float64{10, 15}
	for i, v := range expected {
		if mean[i] != v {
			t.Errorf("mean[%d] = %f, want %f", i, mean[i], v)
		}
	}
}

func TestWindowMean_Warmup(t *testing.T) {
	prices := []float64{10, 11, 12, 13}

	mean := WindowMean(prices, 3)

	if mean[0].IsSome() || mean[1].IsSome() {
		t.Error("first window-1 points should be None")
	}
	if got := mean[2].TakeOr(0); got != 11 {
		t.Errorf("mean[2] = %f, want 11", got)
	}
	if got := mean[3].TakeOr(0); got != 12 {
		t.Errorf("mean[3] = %f, want 12", got)
	}
}

func TestWindowStd_SampleDeviation(t *testing.T) {
	prices := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	std := WindowStd(prices, 8)

	for i := 0; i < 7; i++ {
		if std[i].IsSome() {
			t.Errorf("std[%d] should be None during warmup", i)
		}
	}

	// Sample std of the full slice: variance 32/7.
	want := math.Sqrt(32.0 / 7.0)
	got := std[7].TakeOr(0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("std[7] = %f, want %f", got, want)
	}
}

func TestWindowStd_ConstantSeries(t *testing.T) {
	prices := []float64{100, 100, 100, 100, 100, 100}

	std := WindowStd(prices, 5)

	// Zero deviation is defined, just zero; the z-score fallback is the
	// strategy's concern, not the indicator's.
	for i := 4; i < len(std); i++ {
		if !std[i].IsSome() {
			t.Fatalf("std[%d] should be defined", i)
		}
		if std[i].TakeOr(-1) != 0 {
			t.Errorf("std[%d] = %f, want 0", i, std[i].TakeOr(-1))
		}
	}
}

func TestWindowStd_DegenerateWindow(t *testing.T) {
	std := WindowStd([]float64{1, 2, 3}, 1)
	for i := range std {
		if std[i].IsSome() {
			t.Errorf("std[%d] should be None for window < 2", i)
		}
	}
}

func TestDiff_Warmup(t *testing.T) {
	prices := []float64{100, 102, 101, 105}

	diff := Diff(prices, 2)

	if diff[0].IsSome() || diff[1].IsSome() {
		t.Error("first lag points should be None")
	}
	if got := diff[2].TakeOr(0); got != 1 {
		t.Errorf("diff[2] = %f, want 1", got)
	}
	if got := diff[3].TakeOr(0); got != 3 {
		t.Errorf("diff[3] = %f, want 3", got)
	}
}

func TestDiff_LagExceedsSeries(t *testing.T) {
	diff := Diff([]float64{1, 2, 3}, 10)
	for i := range diff {
		if diff[i].IsSome() {
			t.Errorf("diff[%d] should be None when lag exceeds series", i)
		}
	}
}
