// Package replay re-runs recorded evaluation cycles through the full
// governor pipeline — normalize, aggregate, monotonicity guard, and
// optionally the duty-cycle controller — and diffs the outcome against the
// fixture's expectations. Operates entirely in memory.
package replay

import (
	"errors"
	"fmt"
	"math"

	"github.com/beegrid/corridor-governor/internal/corridor"
	"github.com/beegrid/corridor-governor/internal/faults"
	"github.com/beegrid/corridor-governor/internal/guard"
	"github.com/beegrid/corridor-governor/internal/kernel"
	"github.com/beegrid/corridor-governor/internal/residual"
)

// #region types
// CycleResult captures the outcome of replaying one cycle.
type CycleResult struct {
	CycleID  string
	Residual residual.Residual // after the monotonicity guard
	Decision *kernel.Decision  // nil when the cycle carries no node state
}

// Mismatch is one divergence between a replayed cycle and its expectation.
type Mismatch struct {
	CycleID string
	Field   string
	Want    string
	Got     string
}

// #endregion types

// #region replay
// Replay iterates through the fixture's cycles, retaining each raw residual
// snapshot to drive the guard on the next cycle.
func Replay(f Fixture) ([]CycleResult, error) {
	reg := corridor.NewRegistry()
	for _, fb := range f.Bands {
		if err := reg.Register(fb.toBand()); err != nil {
			var degen *faults.NumericDegenerate
			if errors.As(err, &degen) {
				continue
			}
			return nil, fmt.Errorf("register band %s: %w", fb.VarID, err)
		}
	}

	var k *kernel.Kernel
	if f.Kernel != nil {
		var err error
		if k, err = f.Kernel.toKernel(); err != nil {
			return nil, fmt.Errorf("build kernel: %w", err)
		}
	}

	var prev residual.Residual
	results := make([]CycleResult, 0, len(f.Cycles))

	for _, cycle := range f.Cycles {
		ms := make([]corridor.Measurement, 0, len(cycle.Measurements))
		for _, fm := range cycle.Measurements {
			ms = append(ms, fm.toMeasurement())
		}

		next, err := residual.FromMeasurements(reg, ms)
		if err != nil {
			return nil, fmt.Errorf("cycle %s: %w", cycle.CycleID, err)
		}

		result := CycleResult{
			CycleID:  cycle.CycleID,
			Residual: guard.SafeStep(prev, next),
		}

		if k != nil && cycle.Node != nil {
			decision, err := k.Evaluate(cycle.Node.toNodeState())
			if err != nil {
				return nil, fmt.Errorf("cycle %s: %w", cycle.CycleID, err)
			}
			result.Decision = &decision
		}

		results = append(results, result)
		prev = next
	}
	return results, nil
}

// #endregion replay

// #region verify
// totalTolerance absorbs float noise when comparing weighted potentials.
const totalTolerance = 1e-9

// Verify diffs replay results against the fixture's expected outcomes.
func Verify(f Fixture, results []CycleResult) []Mismatch {
	byID := make(map[string]CycleResult, len(results))
	for _, r := range results {
		byID[r.CycleID] = r
	}

	var mismatches []Mismatch
	for _, exp := range f.Expected {
		got, ok := byID[exp.CycleID]
		if !ok {
			mismatches = append(mismatches, Mismatch{
				CycleID: exp.CycleID, Field: "cycle", Want: "present", Got: "missing",
			})
			continue
		}
		if math.Abs(got.Residual.Total-exp.Total) > totalTolerance {
			mismatches = append(mismatches, Mismatch{
				CycleID: exp.CycleID, Field: "total",
				Want: fmt.Sprintf("%.9g", exp.Total),
				Got:  fmt.Sprintf("%.9g", got.Residual.Total),
			})
		}
		if got.Residual.Derate != exp.Derate {
			mismatches = append(mismatches, Mismatch{
				CycleID: exp.CycleID, Field: "derate",
				Want: fmt.Sprintf("%v", exp.Derate),
				Got:  fmt.Sprintf("%v", got.Residual.Derate),
			})
		}
		if got.Residual.Stop != exp.Stop {
			mismatches = append(mismatches, Mismatch{
				CycleID: exp.CycleID, Field: "stop",
				Want: fmt.Sprintf("%v", exp.Stop),
				Got:  fmt.Sprintf("%v", got.Residual.Stop),
			})
		}
		if exp.Permitted != nil {
			if got.Decision == nil {
				mismatches = append(mismatches, Mismatch{
					CycleID: exp.CycleID, Field: "permitted", Want: fmt.Sprintf("%v", *exp.Permitted), Got: "no decision",
				})
			} else if got.Decision.Permitted != *exp.Permitted {
				mismatches = append(mismatches, Mismatch{
					CycleID: exp.CycleID, Field: "permitted",
					Want: fmt.Sprintf("%v", *exp.Permitted),
					Got:  fmt.Sprintf("%v", got.Decision.Permitted),
				})
			}
		}
	}
	return mismatches
}

// #endregion verify
