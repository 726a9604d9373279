// Package export renders amortization schedules for people and other
// programs. Values are rounded here and only here; the engine keeps full
// precision.
package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"loan-emi/amortization"
	"loan-emi/domain"
)

type View string

const (
	ViewMonthly View = "monthly"
	ViewYearly  View = "yearly"
)

func ParseView(s string) (View, error) {
	switch View(s) {
	case "", ViewMonthly:
		return ViewMonthly, nil
	case ViewYearly:
		return ViewYearly, nil
	}
	return "", fmt.Errorf("unknown view %q (want monthly or yearly)", s)
}

// Row is one rendered line: a date or year label followed by principal,
// interest and balance in whole currency units.
type Row struct {
	Label     string `json:"label" yaml:"label"`
	Principal int64  `json:"principal" yaml:"principal"`
	Interest  int64  `json:"interest" yaml:"interest"`
	Balance   int64  `json:"balance" yaml:"balance"`
}

// Summary mirrors the headline figures: the installment to the cent and
// the totals to the unit.
type Summary struct {
	Principal     float64 `json:"principal" yaml:"principal"`
	AnnualRatePct float64 `json:"annual_rate_pct" yaml:"annual_rate_pct"`
	TenureMonths  int     `json:"tenure_months" yaml:"tenure_months"`
	StartDate     string  `json:"start" yaml:"start"`
	Installment   float64 `json:"installment" yaml:"installment"`
	TotalInterest int64   `json:"total_interest" yaml:"total_interest"`
	TotalPayment  int64   `json:"total_payment" yaml:"total_payment"`

	// Shares of the total payment in percent, rounded to two decimals.
	PrincipalSharePct float64 `json:"principal_share_pct" yaml:"principal_share_pct"`
	InterestSharePct  float64 `json:"interest_share_pct" yaml:"interest_share_pct"`
}

type Report struct {
	Title   string   `json:"title" yaml:"title"`
	View    View     `json:"view" yaml:"view"`
	Summary Summary  `json:"summary" yaml:"summary"`
	Header  []string `json:"header" yaml:"header"`
	Rows    []Row    `json:"rows" yaml:"rows"`
}

// NewReport builds the monthly or yearly report for a schedule view.
func NewReport(view domain.ScheduleView, v View) Report {
	result := view.Result
	report := Report{
		Title: "Amortization Schedule",
		View:  v,
		Summary: Summary{
			Principal:     result.Terms.Principal,
			AnnualRatePct: result.Terms.AnnualRatePct,
			TenureMonths:  result.Terms.TenureMonths,
			StartDate:     view.StartDate,
			Installment:   RoundCents(result.InstallmentAmount),
			TotalInterest: RoundUnits(result.TotalInterest),
			TotalPayment:  RoundUnits(result.TotalPayment),
		},
	}
	report.Summary.PrincipalSharePct, report.Summary.InterestSharePct =
		paymentShares(result.Terms.Principal, result.TotalInterest)

	if v == ViewYearly {
		report.Title += " (Yearly)"
		report.Header = []string{"Year", "Principal", "Interest", "Balance End"}
		report.Rows = YearlyRows(view.Yearly)
	} else {
		report.Title += " (Monthly)"
		report.Header = []string{"Date", "Principal", "Interest", "Balance"}
		report.Rows = MonthlyRows(view.Monthly)
	}
	return report
}

func MonthlyRows(rows []domain.DatedPeriodRow) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{
			Label:     amortization.FormatDate(r.Date),
			Principal: RoundUnits(r.PrincipalComponent),
			Interest:  RoundUnits(r.InterestComponent),
			Balance:   RoundUnits(r.EndingBalance),
		}
	}
	return out
}

func YearlyRows(buckets []domain.YearBucket) []Row {
	out := make([]Row, len(buckets))
	for i, b := range buckets {
		out[i] = Row{
			Label:     strconv.Itoa(b.Year),
			Principal: RoundUnits(b.PrincipalSum),
			Interest:  RoundUnits(b.InterestSum),
			Balance:   RoundUnits(b.EndingBalance),
		}
	}
	return out
}

// paymentShares splits principal plus interest into percentages. The
// denominator is at least one so an empty loan yields zero shares.
func paymentShares(principal, interest float64) (float64, float64) {
	total := math.Max(1, principal+interest)
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, 0
	}
	return RoundCents(principal / total * 100), RoundCents(interest / total * 100)
}

// RoundUnits rounds half away from zero to a whole unit. Non-finite values
// render as zero.
func RoundUnits(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

// RoundCents rounds half away from zero to two decimals.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
