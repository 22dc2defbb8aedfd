package lending

import (
	"github.com/lending/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// MonthlyRate derives the monthly rate fraction from an annual percentage
// rate. The percentage is rounded half up to 2 decimal places before the
// division by 100 so results stay reproducible across implementations:
// a 12% annual rate yields exactly 0.01.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(twelve).Round(2).Div(hundred)
}

// AnnuityInstallment computes the fixed monthly payment amortizing principal
// and interest evenly across the tenor:
//
//	installment = P * r / (1 - (1+r)^-n)
//
// with r = MonthlyRate(annualRate) and the result rounded half up to 2
// decimal places. A zero monthly rate makes the annuity denominator zero, so
// the computation falls back to straight-line division of the principal.
func AnnuityInstallment(principal, annualRate decimal.Decimal, tenorMonths int) (decimal.Decimal, error) {
	if tenorMonths <= 0 {
		return decimal.Zero, shared.NewDomainError("CALCULATION_ERROR", "Tenor must be a positive number of months")
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Principal must be positive")
	}
	if annualRate.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}

	n := decimal.NewFromInt(int64(tenorMonths))
	rate := MonthlyRate(annualRate)
	if rate.IsZero() {
		// Straight-line fallback for interest-free loans.
		return principal.Div(n).Round(2), nil
	}

	// Equivalent form P*r*f/(f-1) with f = (1+r)^n avoids the negative
	// exponent while keeping the power term exact.
	factor := one.Add(rate).Pow(n)
	installment := principal.Mul(rate).Mul(factor).Div(factor.Sub(one))

	return installment.Round(2), nil
}
