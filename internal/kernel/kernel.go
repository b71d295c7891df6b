// Package kernel computes bounded actuation intensities for emission nodes
// under corridor constraints. Evaluation is pure: given a node snapshot and
// the configured envelopes, it produces a Decision with no hidden state, so
// distinct nodes are safe to evaluate in parallel.
package kernel

import (
	"fmt"
	"math"

	"github.com/beegrid/corridor-governor/internal/corridor"
	"github.com/beegrid/corridor-governor/internal/faults"
)

// #region constants
const (
	// exclusionPenaltyFactor makes any nonzero corridor penalty decisive
	// inside an exclusion zone.
	exclusionPenaltyFactor = 1e6

	// epsRef guards reference-value divisions against zero configuration.
	epsRef = 1e-12
)

// #endregion constants

// #region kernel
// Kernel is the duty-cycle controller for a set of corridor envelopes.
type Kernel struct {
	envelopes []Envelope
	params    Params
}

// New builds a controller. An empty envelope set is a configuration error:
// with no corridors there is nothing to govern against.
func New(envelopes []Envelope, params Params) (*Kernel, error) {
	if len(envelopes) == 0 {
		return nil, &faults.ConfigurationError{Reason: "no corridor envelopes registered"}
	}
	return &Kernel{envelopes: envelopes, params: params}, nil
}

func (k *Kernel) envelopeFor(kind corridor.Kind) (Envelope, bool) {
	for _, e := range k.envelopes {
		if e.Kind == kind {
			return e, true
		}
	}
	return Envelope{}, false
}

// #endregion kernel

// #region phi
// computePhi sums quadratic corridor excursions over the node's predicted
// levels, scaled by the habitat factor. Levels exactly at a bound contribute
// zero.
func (k *Kernel) computePhi(node NodeState) float64 {
	var phi float64
	for _, pl := range node.PredictedLevels {
		env, ok := k.envelopeFor(pl.Kind)
		if !ok {
			continue
		}
		over := math.Max(pl.Level-env.LMax, 0)
		under := math.Max(env.LMin-pl.Level, 0)
		phi += over*over + under*under
	}

	factor := math.Max(node.Habitat.Sensitivity, 1.0)
	if node.Habitat.InExclusionZone {
		factor = exclusionPenaltyFactor
	}
	return phi * factor
}

// #endregion phi

// #region geo-weight
// computeGeoWeight refines the base geospatial weight with exponential
// vertical falloff; an exclusion zone zeroes it outright.
func (k *Kernel) computeGeoWeight(node NodeState) float64 {
	if node.Habitat.InExclusionZone {
		return 0
	}
	base := math.Max(node.GeoWeight, 0)
	return base * math.Exp(-k.params.AlphaZ*math.Abs(node.Habitat.VerticalOffsetM))
}

// #endregion geo-weight

// #region eco-impact
// computeEcoImpact blends pollutant-removal benefit with corridor-safety
// margin into [0,1]. The karma ratio is compressed toward 1 so both
// under- and over-shoot of the reference score below a perfect 1.0.
func (k *Kernel) computeEcoImpact(node NodeState, phi float64) float64 {
	p := k.params
	karmaRatio := math.Min(node.KarmaScore/(p.KarmaRef+epsRef), 2.0)
	sPollutant := 1.0 - math.Abs(karmaRatio-1.0)
	sCorridor := 1.0 - math.Min(phi/(p.PhiRef+epsRef), 1.0)
	s := p.BetaS*sPollutant + (1.0-p.BetaS)*sCorridor
	return clamp01(s)
}

// #endregion eco-impact

// #region evaluate
// Evaluate runs one controller cycle for a node: corridor penalty, refined
// geospatial weight, penalized duty-cycle update projected onto [0,1], and
// the eco-impact score.
func (k *Kernel) Evaluate(node NodeState) (Decision, error) {
	if node.DutyCycle < 0 || node.DutyCycle > 1 {
		return Decision{}, &faults.InputValidationError{
			Field:  "duty_cycle",
			Reason: fmt.Sprintf("must be in [0,1], got %.6g", node.DutyCycle),
		}
	}

	p := k.params
	phi := k.computePhi(node)
	w := k.computeGeoWeight(node)

	u := node.DutyCycle +
		p.EtaMass*(node.MassRemovedKg/(p.MassRef+epsRef)) +
		p.EtaKarma*(node.KarmaScore/(p.KarmaRef+epsRef)) +
		p.EtaGeo*w -
		p.EtaPower*node.PowerCost -
		p.EtaCorridor*(phi/(p.PhiRef+epsRef))

	return Decision{
		NodeID:        node.NodeID,
		SafeDutyCycle: clamp01(u),
		Permitted:     phi == 0 && !node.Habitat.InExclusionZone,
		PhiPenalty:    phi,
		EcoImpact:     k.computeEcoImpact(node, phi),
	}, nil
}

// #endregion evaluate

// #region helpers
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
