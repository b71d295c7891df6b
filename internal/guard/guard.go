// Package guard enforces the non-worsening ratchet between successive
// residual snapshots: once the system has left the fully-safe interior, its
// aggregate potential may not increase. "Currently bad" and "getting worse"
// are decoupled — the system may sit near hard limits as long as the trend
// is non-increasing.
package guard

import "github.com/beegrid/corridor-governor/internal/residual"

// #region safe-step
// SafeStep compares the previous and next residuals and returns the decision
// for next. Neither input is mutated.
//
// If next.Total rose while prev already had a nonzero coordinate, both
// derate and stop are forced. Independently, any coordinate in next at or
// above 1.0 forces stop regardless of trend.
func SafeStep(prev, next residual.Residual) residual.Residual {
	decision := next

	if next.Total > prev.Total && outsideSafeInterior(prev) {
		decision.Derate = true
		decision.Stop = true
	}

	for _, c := range next.Coords {
		if c.Value >= 1.0 {
			decision.Stop = true
		}
	}

	return decision
}

// outsideSafeInterior reports whether any coordinate carries nonzero risk.
func outsideSafeInterior(r residual.Residual) bool {
	for _, c := range r.Coords {
		if c.Value > 0 {
			return true
		}
	}
	return false
}

// #endregion safe-step
