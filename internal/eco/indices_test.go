package eco

import (
	"math"
	"testing"
)

func TestHeatRiskIndex(t *testing.T) {
	cases := []struct {
		name      string
		tempC     float64
		baselineC float64
		want      float64
	}{
		{"at baseline", 25, 25, 0},
		{"below baseline", 20, 25, 0},
		{"half scale", 32.5, 25, 0.5},
		{"saturates", 60, 25, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := float64(NewHeatRiskIndex(tc.tempC, tc.baselineC))
			if math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestToxinLoadFromPpb(t *testing.T) {
	cases := []struct {
		name    string
		ppb     float64
		safeMax float64
		want    float64
	}{
		{"zero", 0, 50, 0},
		{"at safe max", 50, 50, 0.5},
		{"double safe max saturates", 100, 50, 1},
		{"beyond double stays saturated", 500, 50, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := float64(ToxinLoadFromPpb(tc.ppb, tc.safeMax))
			if math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestToxinLoadZeroSafeMax(t *testing.T) {
	if got := float64(ToxinLoadFromPpb(10, 0)); got != 1.0 {
		t.Fatalf("positive concentration with no safe max must saturate, got %v", got)
	}
	if got := float64(ToxinLoadFromPpb(0, 0)); got != 0.0 {
		t.Fatalf("zero concentration with no safe max must be zero, got %v", got)
	}
	if got := float64(ToxinLoadFromPpb(10, 0)); math.IsNaN(got) {
		t.Fatal("zero safe max must not produce NaN")
	}
}

func TestHabitatStabilityIndex(t *testing.T) {
	// diversity 1.0, radius at 2x minimum: both components at full scale.
	if got := NewHabitatStabilityIndex(1.0, 2000, 1000); got != 1.0 {
		t.Fatalf("full habitat should score 1, got %v", got)
	}
	// diversity 0.5, radius exactly at minimum: 0.6*0.5 + 0.4*0.5 = 0.5.
	got := float64(NewHabitatStabilityIndex(0.5, 1000, 1000))
	if math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	// zero everything.
	if got := NewHabitatStabilityIndex(0, 0, 1000); got != 0 {
		t.Fatalf("barren habitat should score 0, got %v", got)
	}
}

func TestHabitatStabilityZeroMinRadius(t *testing.T) {
	// No minimum: the radius factor saturates, leaving only diversity.
	got := float64(NewHabitatStabilityIndex(0.5, 500, 0))
	if math.IsNaN(got) {
		t.Fatal("zero minimum radius must not produce NaN")
	}
	if math.Abs(got-0.7) > 1e-12 {
		t.Fatalf("expected 0.6*0.5 + 0.4*1 = 0.7, got %v", got)
	}
}

func TestImpactFromIndices(t *testing.T) {
	// No risk, perfect habitat: score 100.
	if got := ImpactFromIndices(0, 0, 1); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	// Full risk, no habitat: score 0.
	if got := ImpactFromIndices(1, 1, 0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	// Mixed: habitat 0.5, avg risk 0.5 -> (0.7*0.5 + 0.3*0.5)*100 = 50.
	got := float64(ImpactFromIndices(0.5, 0.5, 0.5))
	if math.Abs(got-50) > 1e-9 {
		t.Fatalf("expected 50, got %v", got)
	}
}

func TestImpactScoreBounded(t *testing.T) {
	for _, heat := range []float64{0, 0.25, 1} {
		for _, toxin := range []float64{0, 0.5, 1} {
			for _, habitat := range []float64{0, 0.75, 1} {
				s := float64(ImpactFromIndices(HeatRiskIndex(heat), ToxinLoadIndex(toxin), HabitatStabilityIndex(habitat)))
				if s < 0 || s > 100 {
					t.Fatalf("score %v out of range for heat=%v toxin=%v habitat=%v", s, heat, toxin, habitat)
				}
			}
		}
	}
}
