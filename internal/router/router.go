// Package router places protective tasks onto governed hives. Hives in
// worse bands receive protective actions first; an adjustment rejected by
// one hive's invariants is retried against the next candidate, never against
// the same hive with the same request.
package router

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/beegrid/corridor-governor/internal/eco"
	"github.com/beegrid/corridor-governor/internal/hive"
	"github.com/beegrid/corridor-governor/internal/ledger"
)

// #region router
// Router routes tasks through a ledger's governed hives.
type Router struct {
	ledger *ledger.Ledger
}

// New creates a router over the given ledger.
func New(l *ledger.Ledger) *Router {
	return &Router{ledger: l}
}

// #endregion router

// #region adjustment-templates
// adjustmentFor expands a task into the environmental adjustment it proposes
// for one hive.
func adjustmentFor(task Task, hiveID string) ledger.Adjustment {
	adj := ledger.Adjustment{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		HiveID:    hiveID,
	}
	switch task.Kind {
	case TaskSprayReduction:
		adj.DeltaPesticidePpb = -10.0
		adj.DeltaForageDiversity = 0.05
		adj.DeltaEcoImpact = 5.0
	case TaskPlantWildflowers:
		adj.DeltaWaterIndex = 0.1
		adj.DeltaForageRadiusM = 200.0
		adj.DeltaForageDiversity = 0.15
		adj.DeltaEcoImpact = 10.0
	case TaskAdjustIrrigation:
		adj.DeltaWaterIndex = 0.1
		adj.DeltaForageDiversity = 0.02
		adj.DeltaEcoImpact = 2.0
	case TaskDimLights:
		adj.DeltaLightNits = -50.0
		adj.DeltaEcoImpact = 1.0
	case TaskReduceNoise:
		adj.DeltaNoiseDb = -10.0
		adj.DeltaEcoImpact = 1.0
	}
	return adj
}

// #endregion adjustment-templates

// #region route
// Route places each task on the first hive that accepts its adjustment.
// Candidates are ordered worst band first, ties broken by the composite
// eco-impact score so the habitat needing protection most is tried first.
// When every hive rejects, the result carries the first rejection reason.
func (r *Router) Route(tasks []Task) []RoutedTask {
	results := make([]RoutedTask, 0, len(tasks))

	for _, task := range tasks {
		candidates := r.ledger.Envelopes()
		sort.SliceStable(candidates, func(i, j int) bool {
			si, sj := bandSeverity(candidates[i].Band), bandSeverity(candidates[j].Band)
			if si != sj {
				return si > sj
			}
			return ecoScore(candidates[i]) < ecoScore(candidates[j])
		})

		routed := RoutedTask{
			Task:   task,
			Reason: "no governed hives",
		}
		for _, cand := range candidates {
			adj := adjustmentFor(task, cand.HiveID)
			if _, err := r.ledger.Apply(adj); err != nil {
				if routed.HiveID == "" {
					routed.HiveID = cand.HiveID
					routed.EcoScore = ecoScore(cand)
					routed.Reason = fmt.Sprintf("rejected: %v", err)
				}
				continue
			}
			routed = RoutedTask{
				Task:     task,
				HiveID:   cand.HiveID,
				EcoScore: ecoScore(cand),
				Accepted: true,
				Reason:   "adjustment satisfies all hive safety invariants",
			}
			break
		}

		log.Printf("[ROUTER] task=%s kind=%s hive=%s eco=%.1f accepted=%v",
			task.ID, task.Kind, routed.HiveID, routed.EcoScore, routed.Accepted)
		results = append(results, routed)
	}
	return results
}

// ecoScore composes the candidate's metrics into the 0-100 eco-impact score
// used for tie-breaking: lower scores are tried first.
func ecoScore(env hive.Envelope) float64 {
	heat := eco.NewHeatRiskIndex(env.TemperatureC, env.Bounds.TemperatureCMax)
	toxin := eco.ToxinLoadFromPpb(env.ToxinPpb, env.Bounds.ToxinPpbMax)
	habitat := eco.NewHabitatStabilityIndex(env.ForageDiversity, env.ForageRadiusM, env.Bounds.ForageRadiusMMin)
	return float64(eco.ImpactFromIndices(heat, toxin, habitat))
}

// bandSeverity orders bands worst first.
func bandSeverity(b hive.Band) int {
	switch b {
	case hive.BandCritical:
		return 2
	case hive.BandWarning:
		return 1
	default:
		return 0
	}
}

// #endregion route
