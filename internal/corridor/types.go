package corridor

// #region kind
// Kind tags a corridor with the physical phenomenon it bounds. The set is
// closed; generic code is parameterized by Kind rather than duplicating
// per-kind record types.
type Kind string

const (
	KindEMF      Kind = "emf"
	KindThermal  Kind = "thermal"
	KindAcoustic Kind = "acoustic"
	KindChemical Kind = "chemical"
	KindRF       Kind = "rf"
)

// #endregion kind

// #region band
// Band is the safe/gold/hard threshold triple plus weight for one monitored
// variable. Ordering safe <= gold <= hard must hold for any band used in
// enforcement; it can only be violated at configuration time.
type Band struct {
	VarID       string
	Units       string // e.g. "C", "ppb", "dimensionless"
	Safe        float64
	Gold        float64
	Hard        float64
	Weight      float64 // contribution to the weighted residual, >= 0
	LyapChannel uint32  // diagnostic channel id
	Mandatory   bool    // true => no corridor, no build
}

// #endregion band

// #region measurement
// Measurement is one raw reading for a banded variable, before normalization.
type Measurement struct {
	VarID string
	Value float64
	Sigma float64 // uncertainty, carried as a diagnostic only
}

// #endregion measurement
