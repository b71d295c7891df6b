// Package ledger validates and atomically applies environmental adjustments
// to hive envelopes under hard directional invariants, appending an
// immutable audit event for every accepted mutation.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/beegrid/corridor-governor/internal/corridor"
	"github.com/beegrid/corridor-governor/internal/faults"
	"github.com/beegrid/corridor-governor/internal/hive"
)

// #region check-and-apply
// CheckAndApply validates an adjustment against the envelope's invariants in
// fixed order, short-circuiting on the first failure, and returns the mutated
// envelope on success. The input envelope is taken by value: on any failure
// the caller's envelope is untouched and the returned error identifies the
// failed check.
func CheckAndApply(env hive.Envelope, adj Adjustment) (hive.Envelope, error) {
	// 1. Pesticide exposure may never increase.
	if adj.DeltaPesticidePpb > 0 {
		return hive.Envelope{}, &faults.InvariantViolation{
			Kind:   faults.ViolationPesticideIncrease,
			Reason: fmt.Sprintf("delta %.6g ppb would increase pesticide exposure", adj.DeltaPesticidePpb),
		}
	}

	// 2. Projected temperature must stay within the safe maximum.
	projectedTemp := env.TemperatureC + tempDeltaFromShade(adj.DeltaShadeFraction)
	if projectedTemp > env.Bounds.TemperatureCMax {
		return hive.Envelope{}, &faults.InvariantViolation{
			Kind:   faults.ViolationTemperatureAboveSafe,
			Reason: fmt.Sprintf("projected temperature %.4g C exceeds safe max %.4g C", projectedTemp, env.Bounds.TemperatureCMax),
		}
	}

	// 3. Projected forage radius must not fall below the safe minimum.
	projectedRadius := env.ForageRadiusM + adj.DeltaForageRadiusM
	if projectedRadius < env.Bounds.ForageRadiusMMin {
		return hive.Envelope{}, &faults.InvariantViolation{
			Kind:   faults.ViolationForageRadiusReduction,
			Reason: fmt.Sprintf("projected radius %.4g m is below safe min %.4g m", projectedRadius, env.Bounds.ForageRadiusMMin),
		}
	}

	// 4. Artificial light and noise may never increase.
	if adj.DeltaLightNits > 0 || adj.DeltaNoiseDb > 0 {
		return hive.Envelope{}, &faults.InvariantViolation{
			Kind:   faults.ViolationLightOrNoiseIncrease,
			Reason: "light and noise deltas must each be <= 0",
		}
	}

	// 5. Eco-impact score is monotone non-decreasing.
	if adj.DeltaEcoImpact < 0 {
		return hive.Envelope{}, &faults.InvariantViolation{
			Kind:   faults.ViolationEcoImpactDecrease,
			Reason: fmt.Sprintf("eco-impact delta %.6g is negative", adj.DeltaEcoImpact),
		}
	}

	env.ToxinPpb += adj.DeltaPesticidePpb
	env.ForageRadiusM = projectedRadius
	env.ForageDiversity = clamp01(env.ForageDiversity + adj.DeltaForageDiversity)
	env.TemperatureC = projectedTemp
	env.EcoImpactScore += adj.DeltaEcoImpact
	env.Band = env.EvaluateBand()
	return env, nil
}

// tempDeltaFromShade converts a shade-fraction delta into a temperature
// delta: added shade cools up to -5 C, removed shade heats at half that rate.
func tempDeltaFromShade(deltaShade float64) float64 {
	clamped := deltaShade
	if clamped > 1 {
		clamped = 1
	} else if clamped < -1 {
		clamped = -1
	}
	if clamped >= 0 {
		return -5.0 * clamped
	}
	return 2.5 * -clamped
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion check-and-apply

// #region ledger
// Ledger owns the envelopes of its admitted hives and their audit trail.
// Apply serializes per hive id so two concurrent adjustments can never race
// on the same envelope; distinct hives proceed in parallel.
type Ledger struct {
	mu        sync.Mutex
	hiveLocks map[string]*sync.Mutex
	envelopes map[string]hive.Envelope
	events    []Event
	store     *Store // optional persistence; nil for in-memory use
}

// NewLedger returns an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		hiveLocks: make(map[string]*sync.Mutex),
		envelopes: make(map[string]hive.Envelope),
	}
}

// NewLedgerWithStore returns a ledger that persists envelopes and events.
func NewLedgerWithStore(store *Store) *Ledger {
	l := NewLedger()
	l.store = store
	return l
}

// #endregion ledger

// #region admit
// Admit places a hive under governance. The corridor registry must pass the
// "no corridor, no build" precondition; a hive is never admitted against an
// incomplete registry.
func (l *Ledger) Admit(env hive.Envelope, reg *corridor.Registry) error {
	if reg == nil || reg.Len() == 0 {
		return &faults.ConfigurationError{Reason: "empty corridor registry"}
	}
	if !reg.ValidateComplete() {
		return &faults.ConfigurationError{
			Reason: "mandatory corridor bands incomplete or malformed",
		}
	}

	env.Band = env.EvaluateBand()

	l.mu.Lock()
	l.envelopes[env.HiveID] = env
	if _, ok := l.hiveLocks[env.HiveID]; !ok {
		l.hiveLocks[env.HiveID] = &sync.Mutex{}
	}
	l.mu.Unlock()

	if l.store != nil {
		return l.store.SaveEnvelope(env)
	}
	return nil
}

// #endregion admit

// #region apply
// Apply runs the read-check-mutate-append sequence for one adjustment under
// the target hive's exclusive lock. On any invariant violation the stored
// envelope is unchanged and no event is appended. When a store is attached
// it is written first, so a persistence failure leaves the in-memory
// envelope and audit trail at their pre-call state.
func (l *Ledger) Apply(adj Adjustment) (hive.Envelope, error) {
	l.mu.Lock()
	lock, ok := l.hiveLocks[adj.HiveID]
	l.mu.Unlock()
	if !ok {
		return hive.Envelope{}, &faults.InputValidationError{
			Field:  "hive_id",
			Reason: fmt.Sprintf("hive %s is not under governance", adj.HiveID),
		}
	}

	lock.Lock()
	defer lock.Unlock()

	l.mu.Lock()
	pre := l.envelopes[adj.HiveID]
	l.mu.Unlock()

	post, err := CheckAndApply(pre, adj)
	if err != nil {
		return hive.Envelope{}, err
	}

	event := Event{
		EventID:    uuid.New().String(),
		Adjustment: adj,
		Pre:        pre,
		Post:       post,
		AcceptedAt: time.Now().UTC(),
	}

	if l.store != nil {
		if err := l.store.SaveEnvelope(post); err != nil {
			return hive.Envelope{}, fmt.Errorf("persist envelope: %w", err)
		}
		if err := l.store.AppendEvent(event); err != nil {
			return hive.Envelope{}, fmt.Errorf("persist event: %w", err)
		}
	}

	l.mu.Lock()
	l.envelopes[adj.HiveID] = post
	l.events = append(l.events, event)
	l.mu.Unlock()

	return post, nil
}

// #endregion apply

// #region accessors
// Envelope returns the current envelope for a hive.
func (l *Ledger) Envelope(hiveID string) (hive.Envelope, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	env, ok := l.envelopes[hiveID]
	return env, ok
}

// Envelopes returns a snapshot of all governed envelopes.
func (l *Ledger) Envelopes() []hive.Envelope {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]hive.Envelope, 0, len(l.envelopes))
	for _, env := range l.envelopes {
		out = append(out, env)
	}
	return out
}

// Events returns the audit trail in acceptance order.
func (l *Ledger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// #endregion accessors
