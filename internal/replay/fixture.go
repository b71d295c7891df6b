package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/beegrid/corridor-governor/internal/corridor"
	"github.com/beegrid/corridor-governor/internal/kernel"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: the corridor
// configuration, recorded cycles, and the flags each cycle is expected to
// produce.
type Fixture struct {
	Description string            `json:"description"`
	Bands       []FixtureBand     `json:"bands"`
	Kernel      *FixtureKernel    `json:"kernel,omitempty"`
	Cycles      []FixtureCycle    `json:"cycles"`
	Expected    []FixtureExpected `json:"expected_results,omitempty"`
}

// FixtureBand mirrors corridor.Band with JSON tags.
type FixtureBand struct {
	VarID       string  `json:"var_id"`
	Units       string  `json:"units"`
	Safe        float64 `json:"safe"`
	Gold        float64 `json:"gold"`
	Hard        float64 `json:"hard"`
	Weight      float64 `json:"weight"`
	LyapChannel uint32  `json:"lyap_channel"`
	Mandatory   bool    `json:"mandatory"`
}

// FixtureKernel carries the controller configuration when the fixture also
// replays duty-cycle decisions.
type FixtureKernel struct {
	EtaMass     float64                 `json:"eta_mass"`
	EtaKarma    float64                 `json:"eta_karma"`
	EtaGeo      float64                 `json:"eta_geo"`
	EtaPower    float64                 `json:"eta_power"`
	EtaCorridor float64                 `json:"eta_corridor"`
	MassRef     float64                 `json:"mass_ref"`
	KarmaRef    float64                 `json:"karma_ref"`
	PhiRef      float64                 `json:"phi_ref"`
	AlphaZ      float64                 `json:"alpha_z"`
	BetaS       float64                 `json:"beta_s"`
	Envelopes   []FixtureKernelEnvelope `json:"envelopes"`
}

// FixtureKernelEnvelope mirrors kernel.Envelope with JSON tags.
type FixtureKernelEnvelope struct {
	Kind string  `json:"kind"`
	LMin float64 `json:"l_min"`
	LMax float64 `json:"l_max"`
}

// FixtureMeasurement mirrors corridor.Measurement with JSON tags.
type FixtureMeasurement struct {
	VarID string  `json:"var_id"`
	Value float64 `json:"value"`
	Sigma float64 `json:"sigma"`
}

// FixtureNode mirrors kernel.NodeState with JSON tags.
type FixtureNode struct {
	NodeID          string                `json:"node_id"`
	DutyCycle       float64               `json:"duty_cycle"`
	MassRemovedKg   float64               `json:"mass_removed_kg"`
	KarmaScore      float64               `json:"karma_score"`
	PowerCost       float64               `json:"power_cost"`
	GeoWeight       float64               `json:"geo_weight"`
	Sensitivity     float64               `json:"sensitivity"`
	InExclusionZone bool                  `json:"in_exclusion_zone"`
	VerticalOffsetM float64               `json:"vertical_offset_m"`
	PredictedLevels []FixturePredictedLvl `json:"predicted_levels"`
}

// FixturePredictedLvl mirrors kernel.PredictedLevel with JSON tags.
type FixturePredictedLvl struct {
	Kind  string  `json:"kind"`
	Level float64 `json:"level"`
}

// FixtureCycle is one recorded evaluation cycle.
type FixtureCycle struct {
	CycleID      string               `json:"cycle_id"`
	Measurements []FixtureMeasurement `json:"measurements"`
	Node         *FixtureNode         `json:"node,omitempty"`
}

// FixtureExpected is the expected outcome for one cycle.
type FixtureExpected struct {
	CycleID   string  `json:"cycle_id"`
	Total     float64 `json:"total"`
	Derate    bool    `json:"derate"`
	Stop      bool    `json:"stop"`
	Permitted *bool   `json:"permitted,omitempty"`
}

// #endregion fixture-types

// #region load
// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if len(f.Cycles) == 0 {
		return Fixture{}, fmt.Errorf("fixture %s has no cycles", path)
	}
	return f, nil
}

// #endregion load

// #region conversions
func (b FixtureBand) toBand() corridor.Band {
	return corridor.Band{
		VarID:       b.VarID,
		Units:       b.Units,
		Safe:        b.Safe,
		Gold:        b.Gold,
		Hard:        b.Hard,
		Weight:      b.Weight,
		LyapChannel: b.LyapChannel,
		Mandatory:   b.Mandatory,
	}
}

func (m FixtureMeasurement) toMeasurement() corridor.Measurement {
	return corridor.Measurement{VarID: m.VarID, Value: m.Value, Sigma: m.Sigma}
}

func (n FixtureNode) toNodeState() kernel.NodeState {
	levels := make([]kernel.PredictedLevel, 0, len(n.PredictedLevels))
	for _, pl := range n.PredictedLevels {
		levels = append(levels, kernel.PredictedLevel{
			Kind:  corridor.Kind(pl.Kind),
			Level: pl.Level,
		})
	}
	return kernel.NodeState{
		NodeID:        n.NodeID,
		DutyCycle:     n.DutyCycle,
		MassRemovedKg: n.MassRemovedKg,
		KarmaScore:    n.KarmaScore,
		PowerCost:     n.PowerCost,
		GeoWeight:     n.GeoWeight,
		Habitat: kernel.HabitatContext{
			Sensitivity:     n.Sensitivity,
			InExclusionZone: n.InExclusionZone,
			VerticalOffsetM: n.VerticalOffsetM,
		},
		PredictedLevels: levels,
	}
}

func (k FixtureKernel) toKernel() (*kernel.Kernel, error) {
	envs := make([]kernel.Envelope, 0, len(k.Envelopes))
	for _, e := range k.Envelopes {
		envs = append(envs, kernel.Envelope{
			Kind: corridor.Kind(e.Kind),
			LMin: e.LMin,
			LMax: e.LMax,
		})
	}
	return kernel.New(envs, kernel.Params{
		EtaMass:     k.EtaMass,
		EtaKarma:    k.EtaKarma,
		EtaGeo:      k.EtaGeo,
		EtaPower:    k.EtaPower,
		EtaCorridor: k.EtaCorridor,
		MassRef:     k.MassRef,
		KarmaRef:    k.KarmaRef,
		PhiRef:      k.PhiRef,
		AlphaZ:      k.AlphaZ,
		BetaS:       k.BetaS,
	})
}

// #endregion conversions
