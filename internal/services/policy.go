package services

import "math"

// ScoringPolicy carries the threshold and factor constants used by the
// aggregator and classifier. It is plain data so tests and future
// per-tenant configuration can substitute alternate values without
// touching package state.
type ScoringPolicy struct {
	// Standard risk-level thresholds, applied at submit and approval.
	StandardLowMin    float64
	StandardMediumMin float64
	// Thresholds applied after a penalty decay; the MEDIUM band
	// reaches lower than the standard one.
	DecayedLowMin    float64
	DecayedMediumMin float64
	// Minimum bivScore for NIS2 compliance.
	NIS2Min float64
	// Multiplier applied to the supplier's persisted profile on
	// REJECTED / REQUIRES_ACTION.
	PenaltyFactor float64
	// Scale applied to the raw overall percentage at submit time.
	OverallScale float64
}

// DefaultScoringPolicy returns the production rule set.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		StandardLowMin:    80,
		StandardMediumMin: 60,
		DecayedLowMin:     80,
		DecayedMediumMin:  50,
		NIS2Min:           71,
		PenaltyFactor:     0.85,
		OverallScale:      0.9,
	}
}

// ScoredAnswer is the aggregator's input: one scored answer tagged
// with its question's BIV category and the max score captured at
// answer time.
type ScoredAnswer struct {
	Category string
	Score    float64
	MaxScore float64
}

// AggregateResult holds a submission's recomputed score set.
type AggregateResult struct {
	OverallScore      float64
	BIVScore          float64
	BusinessScore     float64
	IntegrityScore    float64
	AvailabilityScore float64
}

// Aggregate recomputes the full score set from scratch. Category
// percentages are 100*sum(score)/sum(max) per category, 0 for an
// empty category. The BIV score is the mean over the fixed three
// categories, so assessments that skip a category are pulled down by
// the empty one. The overall score is the raw percentage over all
// answers scaled by OverallScale.
func (p ScoringPolicy) Aggregate(answers []ScoredAnswer) AggregateResult {
	var sums, maxes [3]float64
	var totalScore, totalMax float64
	for _, a := range answers {
		totalScore += a.Score
		totalMax += a.MaxScore
		switch a.Category {
		case CategoryBusiness:
			sums[0] += a.Score
			maxes[0] += a.MaxScore
		case CategoryIntegrity:
			sums[1] += a.Score
			maxes[1] += a.MaxScore
		case CategoryAvailability:
			sums[2] += a.Score
			maxes[2] += a.MaxScore
		}
	}
	pct := func(sum, max float64) float64 {
		if max <= 0 {
			return 0
		}
		return round2(100 * sum / max)
	}
	res := AggregateResult{
		BusinessScore:     pct(sums[0], maxes[0]),
		IntegrityScore:    pct(sums[1], maxes[1]),
		AvailabilityScore: pct(sums[2], maxes[2]),
	}
	res.BIVScore = round2((res.BusinessScore + res.IntegrityScore + res.AvailabilityScore) / 3)
	res.OverallScore = round2(pct(totalScore, totalMax) * p.OverallScale)
	return res
}

// Classify maps an overall score to a risk level with the standard
// thresholds.
func (p ScoringPolicy) Classify(overallScore float64) string {
	switch {
	case overallScore >= p.StandardLowMin:
		return RiskLow
	case overallScore >= p.StandardMediumMin:
		return RiskMedium
	}
	return RiskHigh
}

// ClassifyDecayed maps an overall score to a risk level with the
// post-decay thresholds. Kept separate from Classify: the two
// disagree on the 50-59 band.
func (p ScoringPolicy) ClassifyDecayed(overallScore float64) string {
	switch {
	case overallScore >= p.DecayedLowMin:
		return RiskLow
	case overallScore >= p.DecayedMediumMin:
		return RiskMedium
	}
	return RiskHigh
}

// NIS2Compliant reports whether a bivScore meets the NIS2 threshold.
func (p ScoringPolicy) NIS2Compliant(bivScore float64) bool {
	return bivScore >= p.NIS2Min
}

// Decay multiplies a persisted profile score by the penalty factor,
// floored at 0.
func (p ScoringPolicy) Decay(score float64) float64 {
	v := round2(score * p.PenaltyFactor)
	if v < 0 {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
