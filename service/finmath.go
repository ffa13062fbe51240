package service

import (
	"math"

	"car-advisor/domain"
)

// roundTo2Decimals rounds a float64 to 2 decimals.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// clamp pins n into [min, max].
func clamp(n, min, max float64) float64 {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// clampMoney pins a money amount into [0, MaxSafeMoney].
func clampMoney(n float64) float64 {
	return clamp(n, 0, MaxSafeMoney)
}

// MonthlyPaymentFromLoan returns the fixed monthly payment for a standard
// amortized loan. A non-positive principal means no loan is needed and the
// payment is 0. A zero periodic rate degrades to straight-line repayment.
func MonthlyPaymentFromLoan(principal, aprPercent float64, termMonths int) (float64, error) {
	if termMonths <= 0 {
		return 0, domain.NewValidationError("termMonths", "must be greater than 0, got %d", termMonths)
	}
	if math.IsNaN(principal) || math.IsInf(principal, 0) {
		return 0, domain.NewValidationError("principal", "must be finite")
	}
	if math.IsNaN(aprPercent) || math.IsInf(aprPercent, 0) {
		return 0, domain.NewValidationError("aprPercent", "must be finite")
	}
	if principal <= 0 {
		return 0, nil
	}

	r := (aprPercent / 100) / 12
	n := float64(termMonths)
	if r == 0 {
		return principal / n, nil
	}

	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1), nil
}
