package service

import (
	"math"

	"car-advisor/domain"
)

// Flag strings surfaced by the stress scorer. Dedupe downstream is by exact
// string match, so these must stay stable.
const (
	FlagRatioMeaningful = "Car costs are a meaningful portion of income"
	FlagRatioHigh       = "Car costs are high relative to income"
	FlagRatioVeryHigh   = "Car costs are very high relative to income"
	FlagRatioOverAlert  = "Car costs exceed 25% of take-home pay"

	FlagBufferTight  = "Monthly budget is getting tight after car costs"
	FlagBufferThin   = "Very little buffer left after car costs"
	FlagNegativeCash = "Negative monthly cash flow after car costs"
)

// StressInput is one monthly car cost held against one income profile.
type StressInput struct {
	MonthlyNetIncome     float64
	MonthlyFixedExpenses float64
	MonthlyCarAllIn      float64
	RiskTolerance        domain.RiskTolerance
}

// scoreFromRatio grades the cost-to-income ratio against the tolerance
// ceilings. Past the highest ceiling a continuous penalty kicks in, scaling
// with the overshoot and saturating 10 percentage points over.
func scoreFromRatio(ratio float64, th StressThresholds) (float64, []string) {
	var score float64
	var flags []string

	switch {
	case ratio <= th.RatioLow:
		score = 15
	case ratio <= th.RatioMedium:
		score = 40
		flags = append(flags, FlagRatioMeaningful)
	case ratio <= th.RatioHigh:
		score = 65
		flags = append(flags, FlagRatioHigh)
	default:
		score = 85
		flags = append(flags, FlagRatioVeryHigh)
		over := ratio - th.RatioHigh
		score += RatioOverPenaltyMax * math.Min(1, over/RatioOverPenaltySpan)
	}

	return clamp(score, 0, 100), flags
}

// scoreFromBuffer grades the post-car cash buffer against the tolerance
// floors. A negative buffer earns an extra penalty scaling with the deficit,
// saturating at a $500 shortfall.
func scoreFromBuffer(buffer float64, th StressThresholds) (float64, []string) {
	var score float64
	var flags []string

	switch {
	case buffer >= th.BufferLow:
		score = 15
	case buffer >= th.BufferMedium:
		score = 40
		flags = append(flags, FlagBufferTight)
	case buffer >= th.BufferHigh:
		score = 70
		flags = append(flags, FlagBufferThin)
	default:
		score = 95
		flags = append(flags, FlagNegativeCash)
	}

	if buffer < 0 {
		score += DeficitPenaltyMax * math.Min(1, -buffer/DeficitPenaltySpan)
	}

	return clamp(score, 0, 100), flags
}

// stressLevelFor bands a composite score.
func stressLevelFor(score float64) domain.StressLevel {
	switch {
	case score < 40:
		return domain.StressLevelLow
	case score < 70:
		return domain.StressLevelMedium
	default:
		return domain.StressLevelHigh
	}
}

// ScoreMonthlyStress quantifies how stressful a monthly car cost is for the
// given income profile, tuned by risk tolerance. The composite weights the
// buffer score above the ratio score: running out of monthly cash is the
// binding constraint.
func ScoreMonthlyStress(in StressInput, pol Policy) (domain.StressBreakdown, error) {
	if math.IsNaN(in.MonthlyNetIncome) || math.IsInf(in.MonthlyNetIncome, 0) || in.MonthlyNetIncome <= 0 {
		return domain.StressBreakdown{}, domain.NewValidationError("monthlyNetIncome", "must be greater than 0")
	}
	if math.IsNaN(in.MonthlyFixedExpenses) || math.IsInf(in.MonthlyFixedExpenses, 0) || in.MonthlyFixedExpenses < 0 {
		return domain.StressBreakdown{}, domain.NewValidationError("monthlyFixedExpenses", "must not be negative")
	}
	if math.IsNaN(in.MonthlyCarAllIn) || math.IsInf(in.MonthlyCarAllIn, 0) || in.MonthlyCarAllIn < 0 {
		return domain.StressBreakdown{}, domain.NewValidationError("monthlyCarAllIn", "must not be negative")
	}
	if !in.RiskTolerance.Valid() {
		return domain.StressBreakdown{}, domain.NewValidationError("riskTolerance", "unknown value %q", in.RiskTolerance)
	}

	th := pol.thresholdsFor(in.RiskTolerance)

	ratio := in.MonthlyCarAllIn / in.MonthlyNetIncome
	buffer := in.MonthlyNetIncome - in.MonthlyFixedExpenses - in.MonthlyCarAllIn

	ratioScore, ratioFlags := scoreFromRatio(ratio, th)
	bufferScore, bufferFlags := scoreFromBuffer(buffer, th)

	score := clamp(ratioScore*pol.RatioWeight+bufferScore*pol.BufferWeight, 0, 100)

	flags := append(ratioFlags, bufferFlags...)
	if ratio >= pol.RatioAlertCeiling {
		flags = append(flags, FlagRatioOverAlert)
	}
	if buffer < 0 {
		// May repeat the piecewise flag verbatim; dedupeStrings drops the
		// repeat by exact match only. Known redundancy, kept on purpose.
		flags = append(flags, FlagNegativeCash)
	}

	return domain.StressBreakdown{
		CarToIncomeRatio: ratio,
		PostCarBuffer:    buffer,
		StressScore:      score,
		StressLevel:      stressLevelFor(score),
		Flags:            dedupeStrings(flags),
	}, nil
}

// SimulateIncomeShock rescores the same input with income cut by
// dropPercent. It probes fragility; it never feeds the primary verdict.
func SimulateIncomeShock(in StressInput, dropPercent float64, pol Policy) (domain.StressBreakdown, error) {
	if math.IsNaN(dropPercent) || dropPercent < 0 || dropPercent > MaxIncomeShockPercent {
		return domain.StressBreakdown{}, domain.NewValidationError("incomeDropPercent", "must be between 0 and %.0f", MaxIncomeShockPercent)
	}

	shocked := in
	shocked.MonthlyNetIncome = in.MonthlyNetIncome * (1 - dropPercent/100)
	return ScoreMonthlyStress(shocked, pol)
}

// dedupeStrings removes exact duplicates, preserving first-seen order.
func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
