package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-advisor/domain"
)

func TestMonthlyPaymentFromLoan_ZeroRateIsStraightLine(t *testing.T) {
	payment, err := MonthlyPaymentFromLoan(12000, 0, 24)
	require.NoError(t, err)
	assert.Equal(t, 500.0, payment)
}

func TestMonthlyPaymentFromLoan_ZeroPrincipal(t *testing.T) {
	payment, err := MonthlyPaymentFromLoan(0, 7.5, 60)
	require.NoError(t, err)
	assert.Equal(t, 0.0, payment)

	payment, err = MonthlyPaymentFromLoan(-500, 7.5, 60)
	require.NoError(t, err)
	assert.Equal(t, 0.0, payment)
}

func TestMonthlyPaymentFromLoan_KnownAmortization(t *testing.T) {
	payment, err := MonthlyPaymentFromLoan(20000, 6, 60)
	require.NoError(t, err)
	assert.InDelta(t, 386.66, payment, 0.01)
}

func TestMonthlyPaymentFromLoan_InvalidTerm(t *testing.T) {
	_, err := MonthlyPaymentFromLoan(20000, 6, 0)
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "termMonths", vErr.Field)
}

func TestMonthlyPaymentFromLoan_NonFiniteInputs(t *testing.T) {
	_, err := MonthlyPaymentFromLoan(math.NaN(), 6, 60)
	require.Error(t, err)

	_, err = MonthlyPaymentFromLoan(20000, math.Inf(1), 60)
	require.Error(t, err)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-3, 0, 100))
	assert.Equal(t, 100.0, clamp(250, 0, 100))
	assert.Equal(t, 42.0, clamp(42, 0, 100))
}

func TestRoundTo2Decimals(t *testing.T) {
	assert.Equal(t, 853.33, roundTo2Decimals(853.33333))
	assert.Equal(t, 386.66, roundTo2Decimals(386.656))
}
