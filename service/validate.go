package service

import (
	"math"

	"car-advisor/domain"
)

func checkPositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.NewValidationError(field, "must be finite")
	}
	if v <= 0 {
		return domain.NewValidationError(field, "must be greater than 0")
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.NewValidationError(field, "must be finite")
	}
	if v < 0 {
		return domain.NewValidationError(field, "must not be negative")
	}
	return nil
}

func checkPositiveInt(field string, v int) error {
	if v <= 0 {
		return domain.NewValidationError(field, "must be greater than 0")
	}
	return nil
}

func validateUser(user domain.UserProfile) error {
	if err := checkPositive("user.monthlyNetIncome", user.MonthlyNetIncome); err != nil {
		return err
	}
	if err := checkNonNegative("user.monthlyFixedExpenses", user.MonthlyFixedExpenses); err != nil {
		return err
	}
	if err := checkNonNegative("user.currentSavings", user.CurrentSavings); err != nil {
		return err
	}
	if !user.CreditScoreBand.Valid() {
		return domain.NewValidationError("user.creditScoreBand", "unknown value %q", user.CreditScoreBand)
	}
	if !user.RiskTolerance.Valid() {
		return domain.NewValidationError("user.riskTolerance", "unknown value %q", user.RiskTolerance)
	}
	return nil
}

func validateBuy(buy domain.BuyScenario) error {
	if err := checkPositive("buy.vehiclePrice", buy.VehiclePrice); err != nil {
		return err
	}
	if err := checkNonNegative("buy.downPayment", buy.DownPayment); err != nil {
		return err
	}
	if buy.DownPayment > buy.VehiclePrice {
		return domain.NewValidationError("buy.downPayment", "must not exceed vehicle price")
	}
	if err := checkNonNegative("buy.aprPercent", buy.APRPercent); err != nil {
		return err
	}
	if err := checkPositiveInt("buy.termMonths", buy.TermMonths); err != nil {
		return err
	}
	if err := checkNonNegative("buy.estMonthlyInsurance", buy.EstMonthlyInsurance); err != nil {
		return err
	}
	if err := checkNonNegative("buy.estMonthlyMaintenance", buy.EstMonthlyMaintenance); err != nil {
		return err
	}
	return checkPositiveInt("buy.ownershipMonths", buy.OwnershipMonths)
}

func validateLease(lease domain.LeaseScenario) error {
	if err := checkPositive("lease.msrp", lease.MSRP); err != nil {
		return err
	}
	if err := checkNonNegative("lease.monthlyPayment", lease.MonthlyPayment); err != nil {
		return err
	}
	if err := checkNonNegative("lease.dueAtSigning", lease.DueAtSigning); err != nil {
		return err
	}
	if err := checkPositiveInt("lease.termMonths", lease.TermMonths); err != nil {
		return err
	}
	if err := checkPositive("lease.mileageAllowancePerYear", lease.MileageAllowancePerYear); err != nil {
		return err
	}
	if err := checkPositive("lease.estMilesPerYear", lease.EstMilesPerYear); err != nil {
		return err
	}
	if err := checkNonNegative("lease.estExcessMileFee", lease.EstExcessMileFee); err != nil {
		return err
	}
	if err := checkNonNegative("lease.estMonthlyInsurance", lease.EstMonthlyInsurance); err != nil {
		return err
	}
	if err := checkNonNegative("lease.estMonthlyMaintenance", lease.EstMonthlyMaintenance); err != nil {
		return err
	}
	if !lease.LeaseEndPlan.Valid() {
		return domain.NewValidationError("lease.leaseEndPlan", "unknown value %q", lease.LeaseEndPlan)
	}
	if lease.LeaseEndPlan == domain.LeaseEndBuyout {
		if err := checkPositive("lease.estBuyoutPrice", lease.EstBuyoutPrice); err != nil {
			return err
		}
	}
	return nil
}
