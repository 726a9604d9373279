package amortization

import (
	"errors"
	"fmt"
	"time"

	"loan-emi/domain"
)

// DateLayout is the only accepted textual date form.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// AddMonths moves start by count calendar months, carrying into the year.
//
// When the target month is shorter than start's day of month, the surplus
// days roll over into the following month: 2025-01-31 plus one month is
// 2025-03-03, and 2024-01-31 plus one month is 2024-03-02. The day is never
// clamped to the end of the shorter month.
func AddMonths(start time.Time, count int) time.Time {
	y, m, d := start.Date()
	months := int(m) - 1 + count
	y += floorDiv(months, 12)
	months = floorMod(months, 12)

	first := time.Date(y, time.Month(months+1), 1, 0, 0, 0, 0, start.Location())
	return first.AddDate(0, 0, d-1)
}

// DateForPeriod returns the calendar date of the 1-based periodIndex. Period
// one falls on start itself.
func DateForPeriod(start time.Time, periodIndex int) time.Time {
	return AddMonths(start, periodIndex-1)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AttachDates pairs every schedule row with the date of its period.
func AttachDates(rows []domain.PeriodRow, start time.Time) []domain.DatedPeriodRow {
	dated := make([]domain.DatedPeriodRow, len(rows))
	for i, row := range rows {
		dated[i] = domain.DatedPeriodRow{
			PeriodRow: row,
			Date:      DateForPeriod(start, row.Index),
		}
	}
	return dated
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
