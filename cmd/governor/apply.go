package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/beegrid/corridor-governor/internal/ledger"
)

var applyCmd = &cobra.Command{
	Use:   "apply <adjustment.json>",
	Short: "Apply an environmental adjustment to a governed hive",
	Long: `Apply validates an adjustment against its target hive's invariants
and, when every check passes, atomically mutates the stored envelope and
appends an audit event. On rejection the envelope is unchanged and the
failed check is reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

// adjustmentInput is the JSON shape of one adjustment request.
type adjustmentInput struct {
	HiveID               string  `json:"hive_id"`
	DeltaPesticidePpb    float64 `json:"delta_pesticide_ppb"`
	DeltaShadeFraction   float64 `json:"delta_shade_fraction"`
	DeltaWaterIndex      float64 `json:"delta_water_index"`
	DeltaForageRadiusM   float64 `json:"delta_forage_radius_m"`
	DeltaForageDiversity float64 `json:"delta_forage_diversity"`
	DeltaLightNits       float64 `json:"delta_light_nits"`
	DeltaNoiseDb         float64 `json:"delta_noise_db"`
	DeltaEcoImpact       float64 `json:"delta_eco_impact"`
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read adjustment file: %w", err)
	}
	var in adjustmentInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parse adjustment file: %w", err)
	}

	reg, err := cfg.BuildRegistry()
	if err != nil {
		return err
	}
	store, err := ledger.NewStore(cfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	env, err := store.GetEnvelope(in.HiveID)
	if err != nil {
		return fmt.Errorf("hive %s: %w", in.HiveID, err)
	}

	l := ledger.NewLedgerWithStore(store)
	if err := l.Admit(env, reg); err != nil {
		return err
	}

	post, err := l.Apply(ledger.Adjustment{
		ID:                   uuid.New().String(),
		Timestamp:            time.Now().UTC(),
		HiveID:               in.HiveID,
		DeltaPesticidePpb:    in.DeltaPesticidePpb,
		DeltaShadeFraction:   in.DeltaShadeFraction,
		DeltaWaterIndex:      in.DeltaWaterIndex,
		DeltaForageRadiusM:   in.DeltaForageRadiusM,
		DeltaForageDiversity: in.DeltaForageDiversity,
		DeltaLightNits:       in.DeltaLightNits,
		DeltaNoiseDb:         in.DeltaNoiseDb,
		DeltaEcoImpact:       in.DeltaEcoImpact,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
