package domain

// Verdict is the engine's recommendation.
type Verdict string

const (
	VerdictBuy   Verdict = "buy"
	VerdictLease Verdict = "lease"
)

// Valid reports whether the verdict is one of the known values.
func (v Verdict) Valid() bool {
	return v == VerdictBuy || v == VerdictLease
}

// Confidence grades how decisively the policy separated the two options.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Valid reports whether the confidence is one of the known values.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// StressLevel is the qualitative banding of a stress score.
type StressLevel string

const (
	StressLevelLow    StressLevel = "low"
	StressLevelMedium StressLevel = "medium"
	StressLevelHigh   StressLevel = "high"
)

// DecisionResult is the immutable outcome of one buy-vs-lease evaluation.
// Money fields are clamped to [0, 2^53-1] and stress scores to [0, 100];
// RiskFlags holds at most 12 distinct strings in first-seen order.
type DecisionResult struct {
	Verdict           Verdict    `json:"verdict"`
	Confidence        Confidence `json:"confidence"`
	Summary           string     `json:"summary"`
	BuyTotalCost      float64    `json:"buyTotalCost"`
	LeaseTotalCost    float64    `json:"leaseTotalCost"`
	BuyMonthlyAllIn   float64    `json:"buyMonthlyAllIn"`
	LeaseMonthlyAllIn float64    `json:"leaseMonthlyAllIn"`
	BuyStressScore    float64    `json:"buyStressScore"`
	LeaseStressScore  float64    `json:"leaseStressScore"`
	RiskFlags         []string   `json:"riskFlags"`
}

// StressBreakdown is the scorer's view of one monthly cost against one income
// profile. It stays inside the scorer/engine boundary; only the score and
// flags surface in DecisionResult.
type StressBreakdown struct {
	CarToIncomeRatio float64
	PostCarBuffer    float64
	StressScore      float64
	StressLevel      StressLevel
	Flags            []string
}
