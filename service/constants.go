package service

const (
	MaxLoanAmount   = 1_000_000_000.0
	MaxInterestRate = 1000.0 // % per year
	MaxTermMonths   = 600    // 50 years
	MinTermMonths   = 1

	// Widest tenure range the recommender will scan in one request.
	MaxTermRangeMonths = 120
)
