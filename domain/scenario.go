package domain

// LeaseEndPlan is what the user intends to do when the lease term is up.
type LeaseEndPlan string

const (
	LeaseEndReturn LeaseEndPlan = "return"
	LeaseEndBuyout LeaseEndPlan = "buyout"
)

// Valid reports whether the plan is one of the known values.
func (p LeaseEndPlan) Valid() bool {
	return p == LeaseEndReturn || p == LeaseEndBuyout
}

// BuyScenario describes the financing deal under consideration.
// OwnershipMonths doubles as the comparison horizon for the whole decision.
type BuyScenario struct {
	VehiclePrice          float64 `json:"vehiclePrice"`
	DownPayment           float64 `json:"downPayment"`
	APRPercent            float64 `json:"aprPercent"`
	TermMonths            int     `json:"termMonths"`
	EstMonthlyInsurance   float64 `json:"estMonthlyInsurance"`
	EstMonthlyMaintenance float64 `json:"estMonthlyMaintenance"`
	OwnershipMonths       int     `json:"ownershipMonths"`
}

// LeaseScenario describes the lease deal under consideration.
// EstBuyoutPrice is required when LeaseEndPlan is "buyout".
type LeaseScenario struct {
	MSRP                    float64      `json:"msrp"`
	MonthlyPayment          float64      `json:"monthlyPayment"`
	DueAtSigning            float64      `json:"dueAtSigning"`
	TermMonths              int          `json:"termMonths"`
	MileageAllowancePerYear float64      `json:"mileageAllowancePerYear"`
	EstMilesPerYear         float64      `json:"estMilesPerYear"`
	EstExcessMileFee        float64      `json:"estExcessMileFee"`
	EstMonthlyInsurance     float64      `json:"estMonthlyInsurance"`
	EstMonthlyMaintenance   float64      `json:"estMonthlyMaintenance"`
	LeaseEndPlan            LeaseEndPlan `json:"leaseEndPlan"`
	EstBuyoutPrice          float64      `json:"estBuyoutPrice,omitempty"`
}
