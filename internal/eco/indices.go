// Package eco derives bounded ecological indices from raw hive metrics and
// composes them into a corridor eco-impact score. Used by the router to rank
// hives and exported to telemetry.
package eco

// #region heat-risk
// HeatRiskIndex is 0-1 heat risk for air around a hive; higher is riskier.
type HeatRiskIndex float64

// NewHeatRiskIndex maps temperature excess over baseline onto [0,1],
// saturating at 15 C above baseline.
func NewHeatRiskIndex(tempC, baselineC float64) HeatRiskIndex {
	delta := tempC - baselineC
	if delta < 0 {
		delta = 0
	}
	return HeatRiskIndex(clamp01(delta / 15.0))
}

// #endregion heat-risk

// #region toxin-load
// ToxinLoadIndex is 0-1 toxin load derived from a ppb concentration.
type ToxinLoadIndex float64

// ToxinLoadFromPpb maps the concentration-to-safe-max ratio onto [0,1],
// saturating at twice the safe maximum. A non-positive safe maximum makes
// any positive concentration a full load.
func ToxinLoadFromPpb(ppb, safeMaxPpb float64) ToxinLoadIndex {
	if safeMaxPpb <= 0 {
		if ppb > 0 {
			return 1.0
		}
		return 0.0
	}
	ratio := ppb / safeMaxPpb
	if ratio < 0 {
		ratio = 0
	} else if ratio > 2 {
		ratio = 2
	}
	return ToxinLoadIndex(clamp01(ratio / 2.0))
}

// #endregion toxin-load

// #region habitat-stability
// HabitatStabilityIndex is 0-1 habitat quality from forage diversity and
// radius; higher is better.
type HabitatStabilityIndex float64

// NewHabitatStabilityIndex blends diversity (60%) with the radius factor
// (40%), the latter saturating at twice the minimum radius. A non-positive
// minimum places no radius constraint, so the factor saturates.
func NewHabitatStabilityIndex(diversity, radiusM, minRadiusM float64) HabitatStabilityIndex {
	d := clamp01(diversity)
	rf := 2.0
	if minRadiusM > 0 {
		rf = radiusM / minRadiusM
		if rf < 0 {
			rf = 0
		} else if rf > 2 {
			rf = 2
		}
	}
	return HabitatStabilityIndex(clamp01(0.6*d + 0.4*(rf/2.0)))
}

// #endregion habitat-stability

// #region impact-score
// ImpactScore is the 0-100 composite corridor eco score; higher is better.
type ImpactScore float64

// ImpactFromIndices weights habitat quality at 70% against the averaged
// heat/toxin risk at 30%.
func ImpactFromIndices(heat HeatRiskIndex, toxin ToxinLoadIndex, habitat HabitatStabilityIndex) ImpactScore {
	risk := (float64(heat) + float64(toxin)) / 2.0
	score := (0.7*float64(habitat) + 0.3*(1.0-risk)) * 100.0
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	return ImpactScore(score)
}

// #endregion impact-score

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
