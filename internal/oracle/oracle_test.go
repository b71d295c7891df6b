package oracle

import (
	"math"
	"testing"

	"github.com/beegrid/corridor-governor/internal/corridor"
)

func rfOracle(hard float64) *Oracle {
	return New(hard, []Band{
		{Kind: corridor.KindRF, PosMin: 0.7, PosMax: 2.7, Base: 0.01, NoEffect: 0.41},
	})
}

func TestExcessRatioBasic(t *testing.T) {
	o := rfOracle(1.0)
	ms := []Measurement{{Kind: corridor.KindRF, Pos: 1.8, Value: 0.21}}

	got := o.ExcessRatio(corridor.KindRF, ms)
	want := 0.5 // (0.21 - 0.01) / (0.41 - 0.01)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected ratio %v, got %v", want, got)
	}
}

func TestExcessRatioBelowBaseIsZero(t *testing.T) {
	o := rfOracle(1.0)
	ms := []Measurement{{Kind: corridor.KindRF, Pos: 1.8, Value: 0.005}}
	if got := o.ExcessRatio(corridor.KindRF, ms); got != 0 {
		t.Fatalf("sub-background measurement must contribute zero, got %v", got)
	}
}

func TestExcessRatioTakesMaximum(t *testing.T) {
	o := rfOracle(1.0)
	ms := []Measurement{
		{Kind: corridor.KindRF, Pos: 0.9, Value: 0.11},
		{Kind: corridor.KindRF, Pos: 1.8, Value: 0.41},
		{Kind: corridor.KindRF, Pos: 2.4, Value: 0.21},
	}
	got := o.ExcessRatio(corridor.KindRF, ms)
	if math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("expected the maximum ratio 1.0, got %v", got)
	}
}

func TestExcessRatioIgnoresUnmatched(t *testing.T) {
	o := rfOracle(1.0)
	ms := []Measurement{
		{Kind: corridor.KindRF, Pos: 10.0, Value: 5.0},       // out of band
		{Kind: corridor.KindAcoustic, Pos: 1.8, Value: 5.0},  // wrong kind
	}
	if got := o.ExcessRatio(corridor.KindRF, ms); got != 0 {
		t.Fatalf("unmatched measurements must contribute nothing, got %v", got)
	}
}

func TestExcessRatioDegenerateBand(t *testing.T) {
	o := New(1.0, []Band{
		{Kind: corridor.KindRF, PosMin: 0, PosMax: 10, Base: 0.3, NoEffect: 0.3},
	})
	ms := []Measurement{{Kind: corridor.KindRF, Pos: 5, Value: 0.4}}
	got := o.ExcessRatio(corridor.KindRF, ms)
	if math.IsNaN(got) || math.IsInf(got, 1) {
		t.Fatalf("degenerate band must not produce NaN/Inf, got %v", got)
	}
	if got <= 0 {
		t.Fatalf("excess over a degenerate band must still register, got %v", got)
	}
}

func TestPermitStrictlyBelowHard(t *testing.T) {
	o := rfOracle(1.0)

	at := []Measurement{{Kind: corridor.KindRF, Pos: 1.8, Value: 0.41}} // ratio exactly 1.0
	if o.Permit(corridor.KindRF, at) {
		t.Fatal("ratio equal to the hard threshold must be denied")
	}

	below := []Measurement{{Kind: corridor.KindRF, Pos: 1.8, Value: 0.40}}
	if !o.Permit(corridor.KindRF, below) {
		t.Fatal("ratio below the hard threshold must be permitted")
	}
}

func TestPermitNoMeasurements(t *testing.T) {
	o := rfOracle(1.0)
	if !o.Permit(corridor.KindRF, nil) {
		t.Fatal("no measurements means zero excess and a permit")
	}
}
