package domain

// Tenure modes accepted from callers.
const (
	TenureModeMonths = "months"
	TenureModeYears  = "years"
)

// LoanInput is the raw request as it arrives from a caller. Tenure may be
// given in (possibly fractional) months or in years depending on Mode.
type LoanInput struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"rate"`
	TermMonths   float64 `json:"months"`
	TermYears    float64 `json:"years,omitempty"`
	Mode         string  `json:"mode,omitempty"`
	StartDate    string  `json:"start,omitempty"`
}

// ScheduleView bundles a result with its calendar projections.
type ScheduleView struct {
	Result    AmortizationResult `json:"result" yaml:"result"`
	StartDate string             `json:"start" yaml:"start"`
	Monthly   []DatedPeriodRow   `json:"monthly" yaml:"monthly"`
	Yearly    []YearBucket       `json:"yearly" yaml:"yearly"`
}
