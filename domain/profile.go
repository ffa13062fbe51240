package domain

// CreditScoreBand groups the user's credit score into the bands the product
// quotes APRs for. The decision engine carries it through but does not use it
// in its arithmetic yet; it is reserved for a future APR lookup.
type CreditScoreBand string

const (
	CreditBelow620 CreditScoreBand = "below_620"
	Credit620To679 CreditScoreBand = "620_679"
	Credit680To739 CreditScoreBand = "680_739"
	Credit740Plus  CreditScoreBand = "740_plus"
)

// Valid reports whether the band is one of the known values.
func (b CreditScoreBand) Valid() bool {
	switch b {
	case CreditBelow620, Credit620To679, Credit680To739, Credit740Plus:
		return true
	}
	return false
}

// RiskTolerance selects which stress threshold table applies to the user.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Valid reports whether the tolerance is one of the known values.
func (t RiskTolerance) Valid() bool {
	switch t {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// UserProfile is the financial picture one decision is evaluated against.
// It lives for a single request and is never persisted by the engine.
type UserProfile struct {
	MonthlyNetIncome     float64         `json:"monthlyNetIncome"`
	MonthlyFixedExpenses float64         `json:"monthlyFixedExpenses"`
	CurrentSavings       float64         `json:"currentSavings"`
	CreditScoreBand      CreditScoreBand `json:"creditScoreBand"`
	RiskTolerance        RiskTolerance   `json:"riskTolerance"`
}
