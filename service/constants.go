package service

const (
	// MaxSafeMoney caps every money output. 2^53-1, the largest integer the
	// product's float math represents exactly.
	MaxSafeMoney = 9007199254740991.0

	// MaxIncomeShockPercent bounds SimulateIncomeShock; a drop past 80% is
	// outside anything the product models.
	MaxIncomeShockPercent = 80.0

	// RatioOverPenaltyMax is the extra score added when the cost-to-income
	// ratio blows past the highest ceiling, saturating at
	// RatioOverPenaltySpan percentage points over.
	RatioOverPenaltyMax  = 15.0
	RatioOverPenaltySpan = 0.10

	// DeficitPenaltyMax is the extra score added for a negative monthly
	// buffer, saturating at a DeficitPenaltySpan dollar deficit.
	DeficitPenaltyMax  = 5.0
	DeficitPenaltySpan = 500.0
)
