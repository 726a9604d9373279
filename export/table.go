package export

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteTable prints the summary and an aligned table for terminals.
func WriteTable(out io.Writer, report Report, money *Money) error {
	s := report.Summary
	fmt.Fprintf(out, "%s\n\n", report.Title)
	fmt.Fprintf(out, "Monthly EMI:    %s\n", money.Cents(s.Installment))
	fmt.Fprintf(out, "Total interest: %s\n", money.Units(s.TotalInterest))
	fmt.Fprintf(out, "Total payment:  %s\n", money.Units(s.TotalPayment))
	fmt.Fprintf(out, "Split:          %.2f%% principal, %.2f%% interest\n", s.PrincipalSharePct, s.InterestSharePct)
	fmt.Fprintf(out, "Tenure:         %d months\n", s.TenureMonths)
	fmt.Fprintf(out, "Start date:     %s\n\n", s.StartDate)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	h := report.Header
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", h[0], h[1], h[2], h[3])
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			row.Label,
			money.Units(row.Principal),
			money.Units(row.Interest),
			money.Units(row.Balance))
	}
	return tw.Flush()
}
