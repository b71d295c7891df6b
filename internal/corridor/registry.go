package corridor

import (
	"fmt"

	"github.com/beegrid/corridor-governor/internal/faults"
)

// #region registry
// Registry holds the corridor bands shared read-only across normalization
// and aggregation. Registration order is preserved so evaluations are
// deterministic.
type Registry struct {
	bands map[string]Band
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bands: make(map[string]Band)}
}

// #endregion registry

// #region register
// Register adds a band after structural validation. A band with safe == hard
// is stored (normalization handles it via the degenerate rule) but the call
// returns *faults.NumericDegenerate so the condition is visible at
// configuration time.
func (r *Registry) Register(b Band) error {
	if b.VarID == "" {
		return &faults.ConfigurationError{Reason: "band has empty var id"}
	}
	if b.Safe > b.Gold {
		return &faults.ConfigurationError{
			Reason: fmt.Sprintf("band %s: safe %.6g exceeds gold %.6g", b.VarID, b.Safe, b.Gold),
		}
	}
	if b.Gold > b.Hard {
		return &faults.ConfigurationError{
			Reason: fmt.Sprintf("band %s: gold %.6g exceeds hard %.6g", b.VarID, b.Gold, b.Hard),
		}
	}
	if b.Weight < 0 {
		return &faults.ConfigurationError{
			Reason: fmt.Sprintf("band %s: negative weight %.6g", b.VarID, b.Weight),
		}
	}

	if _, exists := r.bands[b.VarID]; !exists {
		r.order = append(r.order, b.VarID)
	}
	r.bands[b.VarID] = b

	if b.Safe == b.Hard {
		return &faults.NumericDegenerate{VarID: b.VarID}
	}
	return nil
}

// #endregion register

// #region lookup
// Lookup returns the band for a variable id.
func (r *Registry) Lookup(varID string) (Band, bool) {
	b, ok := r.bands[varID]
	return b, ok
}

// Bands returns all registered bands in registration order.
func (r *Registry) Bands() []Band {
	out := make([]Band, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.bands[id])
	}
	return out
}

// Len returns the number of registered bands.
func (r *Registry) Len() int {
	return len(r.bands)
}

// #endregion lookup

// #region validate-complete
// ValidateComplete implements the "no corridor, no build" precondition:
// true iff every mandatory band satisfies hard > 0, gold <= hard and
// safe <= gold. Checked once before any entity is admitted to governance.
func ValidateComplete(bands []Band) bool {
	for _, b := range bands {
		if !b.Mandatory {
			continue
		}
		if b.Hard <= 0 || b.Gold > b.Hard || b.Safe > b.Gold {
			return false
		}
	}
	return true
}

// ValidateComplete checks the registry's own bands.
func (r *Registry) ValidateComplete() bool {
	return ValidateComplete(r.Bands())
}

// #endregion validate-complete
