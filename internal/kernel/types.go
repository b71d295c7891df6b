package kernel

import "github.com/beegrid/corridor-governor/internal/corridor"

// #region envelope
// Envelope bounds one corridor kind for the duty-cycle controller: predicted
// levels must stay inside [LMin, LMax]. A level exactly at either bound
// contributes zero penalty.
type Envelope struct {
	Kind corridor.Kind
	LMin float64
	LMax float64
}

// #endregion envelope

// #region predicted-level
// PredictedLevel is the physics layer's forecast for one corridor kind at
// the node's proposed duty cycle.
type PredictedLevel struct {
	Kind  corridor.Kind
	Level float64
}

// #endregion predicted-level

// #region habitat-context
// HabitatContext is the bee/habitat situation at a node's location.
type HabitatContext struct {
	Sensitivity     float64 // >= 0, >= 1.0 near hives
	InExclusionZone bool    // emission categorically disallowed
	VerticalOffsetM float64 // vertical distance to the dominant flight band
}

// #endregion habitat-context

// #region node-state
// NodeState is one emission node's inputs to a controller cycle. Owned by
// the calling control loop; the controller reads it and returns a Decision.
type NodeState struct {
	NodeID          string
	DutyCycle       float64 // proposed actuation intensity in [0,1]
	MassRemovedKg   float64 // pollutant mass removed this interval
	KarmaScore      float64 // hazard-weighted removal credit
	PowerCost       float64 // normalized power cost in [0,1]
	GeoWeight       float64 // base geospatial weight
	Habitat         HabitatContext
	PredictedLevels []PredictedLevel
}

// #endregion node-state

// #region params
// Params are the deployment coefficients of the penalized update law. All of
// them come from injected configuration, never hardcoded at call sites.
type Params struct {
	EtaMass     float64 // gain on normalized mass removed
	EtaKarma    float64 // gain on normalized karma
	EtaGeo      float64 // gain on geospatial weight
	EtaPower    float64 // penalty on power cost
	EtaCorridor float64 // penalty on normalized corridor violation
	MassRef     float64 // mass normalization reference
	KarmaRef    float64 // karma normalization reference
	PhiRef      float64 // corridor penalty normalization reference
	AlphaZ      float64 // vertical falloff rate for the geospatial weight
	BetaS       float64 // pollutant-vs-corridor blend in the eco score
}

// DefaultParams returns the reference deployment coefficients.
func DefaultParams() Params {
	return Params{
		EtaMass:     0.05,
		EtaKarma:    0.02,
		EtaGeo:      0.1,
		EtaPower:    0.05,
		EtaCorridor: 0.2,
		MassRef:     1e-6,
		KarmaRef:    1e9,
		PhiRef:      1.0,
		AlphaZ:      0.05,
		BetaS:       0.7,
	}
}

// #endregion params

// #region decision
// Decision is the immutable outcome of one controller cycle, consumed by
// downstream audit and telemetry.
type Decision struct {
	NodeID        string
	SafeDutyCycle float64 // bounded actuation intensity in [0,1]
	Permitted     bool    // phi == 0 and not in an exclusion zone
	PhiPenalty    float64 // >= 0
	EcoImpact     float64 // composite reward in [0,1]
}

// #endregion decision
