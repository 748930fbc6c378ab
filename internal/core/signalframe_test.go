package core

import (
	"errors"
	"testing"

	"github.com/moznion/go-optional"
)

func TestNewSignalFrame_PositionDeltas(t *testing.T) {
	series := testSeries(100, 101, 102, 103, 104)
	signals := []Signal{SignalFlat, SignalLong, SignalLong, SignalShort, SignalFlat}

	frame, err := NewSignalFrame("test", series, signals)
	if err != nil {
		t.Fatalf("NewSignalFrame: %v", err)
	}

	if frame.Len() != series.Len() {
		t.Fatalf("frame length %d, want %d", frame.Len(), series.Len())
	}

	wantDeltas := []float64{0, 1, 0, -2, 1}
	for i, want := range wantDeltas {
		if got := frame.Points[i].PositionDelta; got != want {
			t.Errorf("PositionDelta[%d] = %f, want %f", i, got, want)
		}
	}

	if frame.Points[0].PositionDelta != 0 {
		t.Error("PositionDelta[0] must be 0 by definition")
	}
}

func TestNewSignalFrame_CopiesClose(t *testing.T) {
	series := testSeries(100, 250.5)
	frame, err := NewSignalFrame("test", series, []Signal{SignalFlat, SignalFlat})
	if err != nil {
		t.Fatalf("NewSignalFrame: %v", err)
	}

	for i, bar := range series.Bars {
		if frame.Points[i].Price != bar.Close {
			t.Errorf("Price[%d] = %f, want %f", i, frame.Points[i].Price, bar.Close)
		}
	}
}

func TestNewSignalFrame_Misaligned(t *testing.T) {
	series := testSeries(100, 101, 102)

	_, err := NewSignalFrame("test", series, []Signal{SignalFlat})
	if !errors.Is(err, ErrFrameMismatch) {
		t.Errorf("short signals: err = %v, want ErrFrameMismatch", err)
	}

	signals := []Signal{SignalFlat, SignalFlat, SignalFlat}
	ind := IndicatorSeries{Name: "mavg", Values: Defined([]float64{1, 2})}
	_, err = NewSignalFrame("test", series, signals, ind)
	if !errors.Is(err, ErrFrameMismatch) {
		t.Errorf("short indicator: err = %v, want ErrFrameMismatch", err)
	}
}

func TestNewSignalFrame_EmptySeries(t *testing.T) {
	series := &PriceSeries{Symbol: "BTC-USD"}
	if _, err := NewSignalFrame("test", series, nil); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("err = %v, want ErrEmptySeries", err)
	}
}

func TestSignalFrame_Indicator(t *testing.T) {
	series := testSeries(100, 101)
	ind := IndicatorSeries{
		Name:   "momentum",
		Values: []optional.Option[float64]{optional.None[float64](), optional.Some(1.0)},
	}

	frame, err := NewSignalFrame("test", series, []Signal{SignalFlat, SignalLong}, ind)
	if err != nil {
		t.Fatalf("NewSignalFrame: %v", err)
	}

	got, ok := frame.Indicator("momentum")
	if !ok {
		t.Fatal("expected momentum indicator")
	}
	if got.Values[0].IsSome() {
		t.Error("warmup value should be None")
	}
	if got.Values[1].TakeOr(0) != 1.0 {
		t.Errorf("Values[1] = %v, want Some(1)", got.Values[1])
	}

	if _, ok := frame.Indicator("missing"); ok {
		t.Error("unexpected indicator present")
	}
}
