package service

import "car-advisor/domain"

// StressThresholds are the six bounds one tolerance level is scored against:
// three cost-to-income ratio ceilings and three post-car buffer floors.
type StressThresholds struct {
	RatioLow    float64
	RatioMedium float64
	RatioHigh   float64

	BufferLow    float64
	BufferMedium float64
	BufferHigh   float64
}

// Policy holds every tunable the decision engine and stress scorer run on.
// These are business policy, not implementation detail; config may override
// the cutoffs without touching engine code.
type Policy struct {
	// Thresholds keys the stress table by risk tolerance. Lower tolerance
	// means stricter ratio ceilings and higher required buffers.
	Thresholds map[domain.RiskTolerance]StressThresholds

	// RatioWeight and BufferWeight combine the two partial scores. Buffer is
	// weighted higher: cash-flow failure is the binding constraint.
	RatioWeight  float64
	BufferWeight float64

	// VerdictStressGap is the score gap at which stress alone decides the
	// verdict; below it the cheaper option wins.
	VerdictStressGap float64

	// HighConfidenceGap is the baseline or shocked gap that grades the
	// recommendation as high confidence.
	HighConfidenceGap float64

	// IncomeShockPercent is the income drop applied in the fragility check.
	IncomeShockPercent float64

	// RatioAlertCeiling is the cost-to-income ratio past which the scorer
	// always flags the cost, regardless of the tolerance table.
	RatioAlertCeiling float64

	// SavingsBufferMonthsMin is the minimum months of fixed expenses that
	// should remain in savings after the upfront payment.
	SavingsBufferMonthsMin float64

	// MaxRiskFlags caps DecisionResult.RiskFlags; extras are dropped silently.
	MaxRiskFlags int
}

// DefaultPolicy returns the shipping policy values.
func DefaultPolicy() Policy {
	return Policy{
		Thresholds: map[domain.RiskTolerance]StressThresholds{
			domain.RiskLow: {
				RatioLow: 0.10, RatioMedium: 0.15, RatioHigh: 0.20,
				BufferLow: 1200, BufferMedium: 600, BufferHigh: 0,
			},
			domain.RiskMedium: {
				RatioLow: 0.12, RatioMedium: 0.18, RatioHigh: 0.23,
				BufferLow: 1000, BufferMedium: 450, BufferHigh: 0,
			},
			domain.RiskHigh: {
				RatioLow: 0.15, RatioMedium: 0.20, RatioHigh: 0.25,
				BufferLow: 800, BufferMedium: 300, BufferHigh: 0,
			},
		},
		RatioWeight:            0.45,
		BufferWeight:           0.55,
		VerdictStressGap:       8,
		HighConfidenceGap:      15,
		IncomeShockPercent:     10,
		RatioAlertCeiling:      0.25,
		SavingsBufferMonthsMin: 2,
		MaxRiskFlags:           12,
	}
}

// thresholdsFor looks up the table for a tolerance level. The caller
// validates tolerance membership first.
func (p Policy) thresholdsFor(tolerance domain.RiskTolerance) StressThresholds {
	return p.Thresholds[tolerance]
}
