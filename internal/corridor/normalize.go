package corridor

// #region to-risk
// ToRisk maps a raw measurement into the bounded risk coordinate [0,1]
// against its band: 0 at or below safe, 1 at or above hard, linear in
// between. A degenerate band (safe == hard) has no interior to interpolate
// over, so the result is exactly 1 for any measurement above safe and 0
// otherwise; ToRisk never produces NaN.
func ToRisk(measured float64, b Band) float64 {
	if b.Safe == b.Hard {
		if measured > b.Safe {
			return 1.0
		}
		return 0.0
	}
	if measured <= b.Safe {
		return 0.0
	}
	if measured >= b.Hard {
		return 1.0
	}
	return (measured - b.Safe) / (b.Hard - b.Safe)
}

// #endregion to-risk

// #region gold-risk
// GoldRisk returns the gold threshold expressed in the same normalized
// scale ToRisk maps hard into, so derate decisions compare like with like.
// For a degenerate band gold coincides with both bounds and any positive
// risk is already past it.
func GoldRisk(b Band) float64 {
	if b.Safe == b.Hard {
		return 0.0
	}
	g := (b.Gold - b.Safe) / (b.Hard - b.Safe)
	if g < 0 {
		return 0.0
	}
	if g > 1 {
		return 1.0
	}
	return g
}

// #endregion gold-risk
