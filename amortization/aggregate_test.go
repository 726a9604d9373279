package amortization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-emi/domain"
)

func termsFor(principal, rate float64, months int) domain.LoanTerms {
	return domain.LoanTerms{Principal: principal, AnnualRatePct: rate, TenureMonths: months}
}

func TestGroupByYear_ThirteenMonthsSpanTwoYears(t *testing.T) {
	result := ComputeSchedule(termsFor(100000, 12, 13))
	dated := AttachDates(result.Schedule, mustDate(t, "2025-06-07"))

	buckets := GroupByYear(dated)

	require.Len(t, buckets, 2)
	assert.Equal(t, 2025, buckets[0].Year)
	assert.Equal(t, 2026, buckets[1].Year)

	var first, second float64
	for _, row := range dated[:7] {
		first += row.PrincipalComponent
	}
	for _, row := range dated[7:] {
		second += row.PrincipalComponent
	}
	assert.InDelta(t, first, buckets[0].PrincipalSum, 1e-9)
	assert.InDelta(t, second, buckets[1].PrincipalSum, 1e-9)
	assert.Equal(t, dated[6].EndingBalance, buckets[0].EndingBalance)
	assert.Equal(t, dated[12].EndingBalance, buckets[1].EndingBalance)
}

func TestGroupByYear_SumsMatchRows(t *testing.T) {
	result := ComputeSchedule(termsFor(2500000, 8.5, 240))
	dated := AttachDates(result.Schedule, mustDate(t, "2024-01-31"))

	buckets := GroupByYear(dated)

	var rowPrincipal, rowInterest float64
	for _, row := range dated {
		rowPrincipal += row.PrincipalComponent
		rowInterest += row.InterestComponent
	}
	var bucketPrincipal, bucketInterest float64
	for i, b := range buckets {
		if i > 0 {
			assert.Greater(t, b.Year, buckets[i-1].Year)
		}
		bucketPrincipal += b.PrincipalSum
		bucketInterest += b.InterestSum
	}

	assert.InDelta(t, rowPrincipal, bucketPrincipal, 1e-6)
	assert.InDelta(t, rowInterest, bucketInterest, 1e-6)
	assert.Equal(t, dated[len(dated)-1].EndingBalance, buckets[len(buckets)-1].EndingBalance)
	assert.Equal(t, 2024, buckets[0].Year)
	assert.Equal(t, 2043, buckets[len(buckets)-1].Year)
}

func TestGroupByYear_KeepsLastBalanceNotSum(t *testing.T) {
	rows := []domain.DatedPeriodRow{
		{PeriodRow: domain.PeriodRow{Index: 1, PrincipalComponent: 10, InterestComponent: 1, EndingBalance: 90}, Date: mustDate(t, "2025-11-01")},
		{PeriodRow: domain.PeriodRow{Index: 2, PrincipalComponent: 10, InterestComponent: 1, EndingBalance: 80}, Date: mustDate(t, "2025-12-01")},
		{PeriodRow: domain.PeriodRow{Index: 3, PrincipalComponent: 80, InterestComponent: 1, EndingBalance: 0}, Date: mustDate(t, "2026-01-01")},
	}

	buckets := GroupByYear(rows)

	assert.Equal(t, []domain.YearBucket{
		{Year: 2025, PrincipalSum: 20, InterestSum: 2, EndingBalance: 80},
		{Year: 2026, PrincipalSum: 80, InterestSum: 1, EndingBalance: 0},
	}, buckets)
}

func TestGroupByYear_Empty(t *testing.T) {
	assert.Empty(t, GroupByYear(nil))
	assert.NotNil(t, GroupByYear(nil))
}
