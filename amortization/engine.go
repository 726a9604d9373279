// Package amortization computes installment, totals and the month by month
// schedule of a fixed-rate loan, plus the calendar projections built on it.
// Every function here is pure and safe for concurrent use.
package amortization

import (
	"math"

	"loan-emi/domain"
)

// MinTenureMonths is the smallest tenure the engine simulates.
const MinTenureMonths = 1

// MonthlyRate converts an annual percentage rate into the periodic rate.
func MonthlyRate(annualRatePct float64) float64 {
	return annualRatePct / 12 / 100
}

// Installment returns the equated monthly installment for principal over n
// months at periodic rate r. A zero rate repays principal in equal parts.
func Installment(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	pow := math.Pow(1+r, float64(n))
	switch {
	case pow == 1:
		// r is too small to register in 1+r
		return principal / float64(n)
	case math.IsInf(pow, 1):
		// pow/(pow-1) tends to 1
		return principal * r
	}
	return principal * r * pow / (pow - 1)
}

// ComputeSchedule simulates the loan period by period. Tenures below one
// month are raised to one and reported through TenureClamped; no other input
// is altered, so a non-positive principal or negative rate yields degenerate
// but consistent numbers.
//
// TotalPayment is installment*n and TotalInterest is TotalPayment minus
// principal. Neither is the sum of the schedule rows, which can differ by a
// small amount when the last row is clamped.
func ComputeSchedule(terms domain.LoanTerms) domain.AmortizationResult {
	n := terms.TenureMonths
	clamped := false
	if n < MinTenureMonths {
		n = MinTenureMonths
		clamped = true
	}

	r := MonthlyRate(terms.AnnualRatePct)
	installment := Installment(terms.Principal, r, n)

	schedule := make([]domain.PeriodRow, 0, n)
	balance := terms.Principal
	for m := 1; m <= n; m++ {
		interest := balance * r
		principalPart := math.Min(installment-interest, balance)
		balance = math.Max(0, balance-principalPart)
		schedule = append(schedule, domain.PeriodRow{
			Index:              m,
			PrincipalComponent: principalPart,
			InterestComponent:  interest,
			EndingBalance:      balance,
		})
	}

	totalPayment := installment * float64(n)

	return domain.AmortizationResult{
		Terms: domain.LoanTerms{
			Principal:     terms.Principal,
			AnnualRatePct: terms.AnnualRatePct,
			TenureMonths:  n,
		},
		InstallmentAmount: installment,
		TotalPayment:      totalPayment,
		TotalInterest:     totalPayment - terms.Principal,
		Schedule:          schedule,
		TenureClamped:     clamped,
	}
}

// TenureFromMonths floors a fractional month count. The result is not
// clamped; ComputeSchedule raises anything below MinTenureMonths.
func TenureFromMonths(months float64) int {
	switch {
	case math.IsNaN(months):
		return 0
	case months > math.MaxInt32:
		return math.MaxInt32
	case months < math.MinInt32:
		return math.MinInt32
	}
	return int(math.Floor(months))
}

// TenureFromYears converts a tenure expressed in years to whole months,
// rounding to the nearest month.
func TenureFromYears(years float64) int {
	return TenureFromMonths(math.Round(years * 12))
}
