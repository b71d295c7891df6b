package ledger

import (
	"time"

	"github.com/beegrid/corridor-governor/internal/hive"
)

// #region adjustment
// Adjustment is a single-use proposal of environmental deltas for one hive.
// Directionality constraints are fixed per field and enforced by Apply;
// an Adjustment is never mutated after construction.
type Adjustment struct {
	ID        string
	Timestamp time.Time
	HiveID    string

	DeltaPesticidePpb    float64 // must be <= 0
	DeltaShadeFraction   float64 // [-1,1]; converted to a temperature delta
	DeltaWaterIndex      float64
	DeltaForageRadiusM   float64
	DeltaForageDiversity float64
	DeltaLightNits       float64 // must be <= 0
	DeltaNoiseDb         float64 // must be <= 0
	DeltaEcoImpact       float64 // must be >= 0
}

// #endregion adjustment

// #region event
// Event is one immutable audit record of an accepted envelope mutation,
// with snapshots taken before and after the mutation. Events are append-only,
// ordered by acceptance time.
type Event struct {
	EventID    string
	Adjustment Adjustment
	Pre        hive.Envelope
	Post       hive.Envelope
	AcceptedAt time.Time
}

// #endregion event
