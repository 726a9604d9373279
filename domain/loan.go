package domain

import "time"

// LoanTerms are the inputs of a fixed-rate, fixed-tenure loan.
type LoanTerms struct {
	Principal     float64 `json:"principal" yaml:"principal"`
	AnnualRatePct float64 `json:"annual_rate_pct" yaml:"annual_rate_pct"`
	TenureMonths  int     `json:"tenure_months" yaml:"tenure_months"`
}

// PeriodRow is one month of the amortization schedule.
type PeriodRow struct {
	Index              int     `json:"index" yaml:"index"`
	PrincipalComponent float64 `json:"principal" yaml:"principal"`
	InterestComponent  float64 `json:"interest" yaml:"interest"`
	EndingBalance      float64 `json:"balance" yaml:"balance"`
}

type AmortizationResult struct {
	Terms             LoanTerms   `json:"terms" yaml:"terms"`
	InstallmentAmount float64     `json:"installment" yaml:"installment"`
	TotalPayment      float64     `json:"total_payment" yaml:"total_payment"`
	TotalInterest     float64     `json:"total_interest" yaml:"total_interest"`
	Schedule          []PeriodRow `json:"schedule" yaml:"schedule"`

	// TenureClamped reports that the requested tenure was below one month
	// and was raised to one.
	TenureClamped bool `json:"tenure_clamped,omitempty" yaml:"tenure_clamped,omitempty"`
}

type DatedPeriodRow struct {
	PeriodRow `yaml:",inline"`
	Date      time.Time `json:"date" yaml:"date"`
}

// YearBucket summarizes every period that falls in one calendar year.
// EndingBalance is the balance after the last period of that year.
type YearBucket struct {
	Year          int     `json:"year" yaml:"year"`
	PrincipalSum  float64 `json:"principal" yaml:"principal"`
	InterestSum   float64 `json:"interest" yaml:"interest"`
	EndingBalance float64 `json:"balance" yaml:"balance"`
}
