// Package hive models the environmental envelope of one governed hive:
// raw metrics, their safe bounds, and the derived band classification.
package hive

// #region band
// Band is the derived risk classification of an envelope.
type Band string

const (
	BandSafe     Band = "safe"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

// #endregion band

// #region safe-bounds
// SafeBounds are the per-field limits an envelope is classified against.
type SafeBounds struct {
	TemperatureCMin    float64
	TemperatureCMax    float64
	ToxinPpbMax        float64
	ForageDiversityMin float64
	ForageRadiusMMin   float64
}

// #endregion safe-bounds

// #region envelope
// Envelope holds bee-centered metrics only. Created at onboarding, mutated
// exclusively through validated ledger adjustments; Band is recomputed after
// every successful mutation.
type Envelope struct {
	HiveID          string
	BroodFrames     int
	NectarKg        float64
	PollenKg        float64
	TemperatureC    float64
	ForagerLoad     float64 // fraction of sustainable forager load, [0,1]
	ToxinPpb        float64
	ForageDiversity float64 // [0,1]
	ForageRadiusM   float64
	EcoImpactScore  float64
	Bounds          SafeBounds
	Band            Band
}

// #endregion envelope

// #region evaluate-band
// EvaluateBand classifies the envelope: Safe when temperature, toxin, and
// forage checks all hold, Critical when all three fail, Warning otherwise.
func (e Envelope) EvaluateBand() Band {
	tempOK := e.TemperatureC >= e.Bounds.TemperatureCMin &&
		e.TemperatureC <= e.Bounds.TemperatureCMax
	toxinOK := e.ToxinPpb <= e.Bounds.ToxinPpbMax
	forageOK := e.ForageDiversity >= e.Bounds.ForageDiversityMin &&
		e.ForageRadiusM >= e.Bounds.ForageRadiusMMin

	switch {
	case tempOK && toxinOK && forageOK:
		return BandSafe
	case !tempOK && !toxinOK && !forageOK:
		return BandCritical
	default:
		return BandWarning
	}
}

// #endregion evaluate-band
