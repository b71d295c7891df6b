// Package faults defines the typed error taxonomy shared by the governor
// pipeline. Every rejection or misconfiguration surfaces as one of these
// types so callers can dispatch with errors.As.
package faults

import "fmt"

// #region violation-kind
// ViolationKind enumerates the adjustment-rejection reasons, in the order
// the ledger checks them.
type ViolationKind string

const (
	ViolationPesticideIncrease     ViolationKind = "pesticide_increase"
	ViolationTemperatureAboveSafe  ViolationKind = "temperature_above_safe"
	ViolationForageRadiusReduction ViolationKind = "forage_radius_reduction"
	ViolationLightOrNoiseIncrease  ViolationKind = "light_or_noise_increase"
	ViolationEcoImpactDecrease     ViolationKind = "eco_impact_decrease"
)

// #endregion violation-kind

// #region configuration-error
// ConfigurationError reports a structurally invalid or empty corridor
// configuration. It is the only fault that should prevent startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// #endregion configuration-error

// #region input-validation-error
// InputValidationError reports a per-request input outside its contract,
// e.g. a duty cycle outside [0,1] or a missing mandatory measurement.
type InputValidationError struct {
	Field  string
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// #endregion input-validation-error

// #region invariant-violation
// InvariantViolation identifies which of the five adjustment invariants a
// proposed adjustment broke. The target envelope is left unchanged. Callers
// may retry the request against a different entity, never the same one
// without changing the request.
type InvariantViolation struct {
	Kind   ViolationKind
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation (%s): %s", e.Kind, e.Reason)
}

// #endregion invariant-violation

// #region numeric-degenerate
// NumericDegenerate flags a corridor band whose safe and hard thresholds
// coincide. Normalization still works on such a band via the explicit
// degenerate rule; the error exists so operators notice at configuration time.
type NumericDegenerate struct {
	VarID string
}

func (e *NumericDegenerate) Error() string {
	return fmt.Sprintf("degenerate band %s: safe == hard", e.VarID)
}

// #endregion numeric-degenerate
