package amortization

import "loan-emi/domain"

// GroupByYear folds dated rows into one bucket per calendar year, in the
// order the years first appear. Rows are expected in period order, which
// makes that order ascending.
func GroupByYear(rows []domain.DatedPeriodRow) []domain.YearBucket {
	buckets := make([]domain.YearBucket, 0)
	index := make(map[int]int)

	for _, row := range rows {
		year := row.Date.Year()
		i, ok := index[year]
		if !ok {
			buckets = append(buckets, domain.YearBucket{
				Year:          year,
				EndingBalance: row.EndingBalance,
			})
			i = len(buckets) - 1
			index[year] = i
		}

		b := &buckets[i]
		b.PrincipalSum += row.PrincipalComponent
		b.InterestSum += row.InterestComponent
		b.EndingBalance = row.EndingBalance
	}

	return buckets
}
