// Package oracle implements the generic "no corridor, no emission" gate:
// a banded permission check parameterized by corridor kind, implemented once
// instead of duplicated per kind.
package oracle

import (
	"math"

	"github.com/beegrid/corridor-governor/internal/corridor"
)

// #region constants
// epsDenom guards the excess-ratio denominator when a band's no-effect and
// base levels coincide.
const epsDenom = 1e-9

// #endregion constants

// #region types
// Band bounds one corridor kind over a range of a scalar position axis
// (e.g. GHz for an RF corridor). A measurement matches the band when its
// position falls within [PosMin, PosMax].
type Band struct {
	Kind     corridor.Kind
	PosMin   float64
	PosMax   float64
	Base     float64 // background level
	NoEffect float64 // highest level with no observed effect
}

// Measurement is one reading on a corridor's position axis.
type Measurement struct {
	Kind  corridor.Kind
	Pos   float64
	Value float64
}

// #endregion types

// #region oracle
// Oracle gates emission on the maximum normalized excess ratio across
// measurements staying strictly below a hard threshold.
type Oracle struct {
	hard  float64
	bands []Band
}

// New builds an oracle from its hard threshold and band set.
func New(hard float64, bands []Band) *Oracle {
	return &Oracle{hard: hard, bands: bands}
}

func (o *Oracle) bandFor(kind corridor.Kind, pos float64) (Band, bool) {
	for _, b := range o.bands {
		if b.Kind == kind && pos >= b.PosMin && pos <= b.PosMax {
			return b, true
		}
	}
	return Band{}, false
}

// #endregion oracle

// #region excess-ratio
// ExcessRatio returns the maximum normalized excess over all measurements of
// the given kind: max(measured - base, 0) / max(no_effect - base, eps).
// Measurements with no matching band contribute nothing.
func (o *Oracle) ExcessRatio(kind corridor.Kind, ms []Measurement) float64 {
	var rMax float64
	for _, m := range ms {
		if m.Kind != kind {
			continue
		}
		b, ok := o.bandFor(kind, m.Pos)
		if !ok {
			continue
		}
		num := math.Max(m.Value-b.Base, 0)
		denom := math.Max(b.NoEffect-b.Base, epsDenom)
		if r := num / denom; r > rMax {
			rMax = r
		}
	}
	return rMax
}

// #endregion excess-ratio

// #region permit
// Permit reports whether emission is allowed for a corridor kind: the
// maximum excess ratio must be strictly below the hard threshold.
func (o *Oracle) Permit(kind corridor.Kind, ms []Measurement) bool {
	return o.ExcessRatio(kind, ms) < o.hard
}

// #endregion permit
