package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beegrid/corridor-governor/internal/corridor"
	"github.com/beegrid/corridor-governor/internal/guard"
	"github.com/beegrid/corridor-governor/internal/kernel"
	"github.com/beegrid/corridor-governor/internal/ledger"
	"github.com/beegrid/corridor-governor/internal/oracle"
	"github.com/beegrid/corridor-governor/internal/residual"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <node.json>",
	Short: "Run one governor cycle for an emission node",
	Long: `Evaluate reads a node snapshot from a JSON file, normalizes its
measurements against the configured corridor bands, applies the monotonicity
guard against the previous residual (when --prev is given), and computes the
bounded duty cycle.

The decision is printed as JSON and, when the config names a store path,
appended to the decision log.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

var prevResidualPath string

func init() {
	evaluateCmd.Flags().StringVar(&prevResidualPath, "prev", "",
		"JSON file with the previous cycle's residual snapshot")
	rootCmd.AddCommand(evaluateCmd)
}

// nodeInput is the JSON shape of one evaluation request.
type nodeInput struct {
	NodeID          string  `json:"node_id"`
	DutyCycle       float64 `json:"duty_cycle"`
	MassRemovedKg   float64 `json:"mass_removed_kg"`
	KarmaScore      float64 `json:"karma_score"`
	PowerCost       float64 `json:"power_cost"`
	GeoWeight       float64 `json:"geo_weight"`
	Sensitivity     float64 `json:"sensitivity"`
	InExclusionZone bool    `json:"in_exclusion_zone"`
	VerticalOffsetM float64 `json:"vertical_offset_m"`
	PredictedLevels []struct {
		Kind  string  `json:"kind"`
		Level float64 `json:"level"`
	} `json:"predicted_levels"`
	Measurements []struct {
		VarID string  `json:"var_id"`
		Value float64 `json:"value"`
		Sigma float64 `json:"sigma"`
	} `json:"measurements"`
	OracleMeasurements []struct {
		Kind  string  `json:"kind"`
		Pos   float64 `json:"pos"`
		Value float64 `json:"value"`
	} `json:"oracle_measurements"`
}

// evaluateOutput is the printed result of one cycle.
type evaluateOutput struct {
	Decision     kernel.Decision    `json:"decision"`
	Residual     residual.Residual  `json:"residual"`
	OracleDenied map[string]float64 `json:"oracle_denied,omitempty"` // kind -> excess ratio
}

// oracleGate groups measurements by corridor kind and returns the kinds the
// permission oracle denies, keyed to their excess ratios.
func oracleGate(o *oracle.Oracle, ms []oracle.Measurement) map[string]float64 {
	byKind := make(map[corridor.Kind][]oracle.Measurement)
	for _, m := range ms {
		byKind[m.Kind] = append(byKind[m.Kind], m)
	}
	denied := make(map[string]float64)
	for kind, group := range byKind {
		if !o.Permit(kind, group) {
			denied[string(kind)] = o.ExcessRatio(kind, group)
		}
	}
	return denied
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read node file: %w", err)
	}
	var in nodeInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parse node file: %w", err)
	}

	reg, err := cfg.BuildRegistry()
	if err != nil {
		return err
	}
	k, err := cfg.BuildKernel()
	if err != nil {
		return err
	}

	ms := make([]corridor.Measurement, 0, len(in.Measurements))
	for _, m := range in.Measurements {
		ms = append(ms, corridor.Measurement{VarID: m.VarID, Value: m.Value, Sigma: m.Sigma})
	}
	next, err := residual.FromMeasurements(reg, ms)
	if err != nil {
		return err
	}

	var prev residual.Residual
	if prevResidualPath != "" {
		prevRaw, err := os.ReadFile(prevResidualPath)
		if err != nil {
			return fmt.Errorf("read previous residual: %w", err)
		}
		if err := json.Unmarshal(prevRaw, &prev); err != nil {
			return fmt.Errorf("parse previous residual: %w", err)
		}
	}
	guarded := guard.SafeStep(prev, next)

	node := kernel.NodeState{
		NodeID:        in.NodeID,
		DutyCycle:     in.DutyCycle,
		MassRemovedKg: in.MassRemovedKg,
		KarmaScore:    in.KarmaScore,
		PowerCost:     in.PowerCost,
		GeoWeight:     in.GeoWeight,
		Habitat: kernel.HabitatContext{
			Sensitivity:     in.Sensitivity,
			InExclusionZone: in.InExclusionZone,
			VerticalOffsetM: in.VerticalOffsetM,
		},
	}
	for _, pl := range in.PredictedLevels {
		node.PredictedLevels = append(node.PredictedLevels, kernel.PredictedLevel{
			Kind:  corridor.Kind(pl.Kind),
			Level: pl.Level,
		})
	}

	decision, err := k.Evaluate(node)
	if err != nil {
		return err
	}

	// A stop from the guard overrides whatever the penalty terms allowed.
	if guarded.Stop {
		decision.SafeDutyCycle = 0
		decision.Permitted = false
	}

	// No corridor, no emission: a denial from the permission oracle vetoes
	// the decision the same way.
	oms := make([]oracle.Measurement, 0, len(in.OracleMeasurements))
	for _, m := range in.OracleMeasurements {
		oms = append(oms, oracle.Measurement{
			Kind:  corridor.Kind(m.Kind),
			Pos:   m.Pos,
			Value: m.Value,
		})
	}
	denied := oracleGate(cfg.BuildOracle(), oms)
	if len(denied) > 0 {
		decision.SafeDutyCycle = 0
		decision.Permitted = false
	}

	if cfg.StorePath != "" {
		store, err := ledger.NewStore(cfg.StorePath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.LogDecision(decision, node); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(evaluateOutput{
		Decision:     decision,
		Residual:     guarded,
		OracleDenied: denied,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
