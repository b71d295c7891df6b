package residual

import (
	"fmt"

	"github.com/beegrid/corridor-governor/internal/corridor"
	"github.com/beegrid/corridor-governor/internal/faults"
)

// #region aggregate
// Aggregate combines risk coordinates into the weighted potential
// V = sum_j w_j * r_j and classifies the cycle. Stop fires when any
// coordinate reaches 1.0 (hard-limit breach, unconditional); derate fires
// when any coordinate exceeds its band's gold threshold in the normalized
// scale. Both flags are monotone within the evaluation: once set, never
// cleared.
func Aggregate(coords []Coordinate) Residual {
	res := Residual{Coords: coords}
	for _, c := range coords {
		res.Total += c.Band.Weight * c.Value
		if c.Value >= 1.0 {
			res.Stop = true
		}
		if c.Value > corridor.GoldRisk(c.Band) {
			res.Derate = true
		}
	}
	return res
}

// #endregion aggregate

// #region from-measurements
// FromMeasurements normalizes raw measurements against the registry and
// aggregates them in registration order. A mandatory band with no
// measurement is an input validation failure; optional bands without a
// measurement are skipped.
func FromMeasurements(reg *corridor.Registry, ms []corridor.Measurement) (Residual, error) {
	byVar := make(map[string]corridor.Measurement, len(ms))
	for _, m := range ms {
		byVar[m.VarID] = m
	}

	coords := make([]Coordinate, 0, reg.Len())
	for _, b := range reg.Bands() {
		m, ok := byVar[b.VarID]
		if !ok {
			if b.Mandatory {
				return Residual{}, &faults.InputValidationError{
					Field:  b.VarID,
					Reason: fmt.Sprintf("no measurement for mandatory corridor %s", b.VarID),
				}
			}
			continue
		}
		coords = append(coords, Coordinate{
			VarID: b.VarID,
			Value: corridor.ToRisk(m.Value, b),
			Sigma: m.Sigma,
			Band:  b,
		})
	}
	return Aggregate(coords), nil
}

// #endregion from-measurements
