package residual

import "github.com/beegrid/corridor-governor/internal/corridor"

// #region coordinate
// Coordinate is one measurement normalized into [0,1] against its band.
// Coordinates are ephemeral: recomputed from raw measurements every
// evaluation cycle.
type Coordinate struct {
	VarID string
	Value float64 // normalized risk in [0,1]
	Sigma float64 // uncertainty, diagnostic only; no decision consumes it
	Band  corridor.Band
}

// #endregion coordinate

// #region residual
// Residual is the immutable per-cycle snapshot of the weighted potential and
// its flags. The caller retains the previous snapshot to drive the
// monotonicity guard.
type Residual struct {
	Total  float64 // weighted potential, >= 0, unbounded above
	Coords []Coordinate
	Derate bool // advisory: reduce activity
	Stop   bool // mandatory: halt activity
}

// #endregion residual
