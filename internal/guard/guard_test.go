package guard

import (
	"testing"

	"github.com/beegrid/corridor-governor/internal/corridor"
	"github.com/beegrid/corridor-governor/internal/residual"
)

func coord(varID string, value float64) residual.Coordinate {
	return residual.Coordinate{
		VarID: varID,
		Value: value,
		Band:  corridor.Band{VarID: varID, Safe: 0, Gold: 1, Hard: 2, Weight: 1},
	}
}

func TestSafeStepRatchetsOnWorseningTrend(t *testing.T) {
	prev := residual.Residual{Total: 0.2, Coords: []residual.Coordinate{coord("a", 0.2)}}
	next := residual.Residual{Total: 0.35, Coords: []residual.Coordinate{coord("a", 0.35)}}

	decision := SafeStep(prev, next)
	if !decision.Derate || !decision.Stop {
		t.Fatalf("worsening trend outside the interior must force derate and stop, got derate=%v stop=%v",
			decision.Derate, decision.Stop)
	}
}

func TestSafeStepAllowsWorseningFromInterior(t *testing.T) {
	// prev fully inside the safe interior: the ratchet does not apply.
	prev := residual.Residual{Total: 0, Coords: []residual.Coordinate{coord("a", 0)}}
	next := residual.Residual{Total: 0.3, Coords: []residual.Coordinate{coord("a", 0.3)}}

	decision := SafeStep(prev, next)
	if decision.Derate || decision.Stop {
		t.Fatalf("leaving the interior is not a ratchet violation, got derate=%v stop=%v",
			decision.Derate, decision.Stop)
	}
}

func TestSafeStepAllowsImprovingTrend(t *testing.T) {
	prev := residual.Residual{Total: 0.5, Coords: []residual.Coordinate{coord("a", 0.5)}}
	next := residual.Residual{Total: 0.3, Coords: []residual.Coordinate{coord("a", 0.3)}}

	decision := SafeStep(prev, next)
	if decision.Derate || decision.Stop {
		t.Fatalf("non-increasing potential must pass, got derate=%v stop=%v",
			decision.Derate, decision.Stop)
	}
}

func TestSafeStepStopsOnHardBreachRegardlessOfTrend(t *testing.T) {
	prev := residual.Residual{Total: 2.0, Coords: []residual.Coordinate{coord("a", 1.0)}}
	next := residual.Residual{Total: 1.0, Coords: []residual.Coordinate{coord("a", 1.0)}}

	decision := SafeStep(prev, next)
	if !decision.Stop {
		t.Fatal("coordinate at 1.0 must force stop even on an improving trend")
	}
}

func TestSafeStepDoesNotMutateInputs(t *testing.T) {
	prev := residual.Residual{Total: 0.2, Coords: []residual.Coordinate{coord("a", 0.2)}}
	next := residual.Residual{Total: 0.35, Coords: []residual.Coordinate{coord("a", 0.35)}}

	_ = SafeStep(prev, next)
	if next.Derate || next.Stop {
		t.Fatal("SafeStep must return a decision copy, not mutate next")
	}
}
