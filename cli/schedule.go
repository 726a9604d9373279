package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loan-emi/domain"
	"loan-emi/export"
)

type scheduleCmd struct {
	cli    *CLI
	amount float64
	rate   float64
	months float64
	years  float64
	mode   string
	start  string
	view   string
	format string
	out    string
}

func (c *CLI) newScheduleCmd() *cobra.Command {
	sc := &scheduleCmd{cli: c}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the amortization schedule of a loan",
		Example: `  emi schedule --amount 500000 --rate 9.99 --months 60
  emi schedule --amount 500000 --rate 9.99 --years 5 --view yearly --format csv
  emi schedule --amount 500000 --rate 9.99 --months 60 --format pdf --out schedule.pdf`,
		Args: cobra.NoArgs,
		RunE: sc.run,
	}

	cmd.Flags().Float64Var(&sc.amount, "amount", 50000, "Principal")
	cmd.Flags().Float64Var(&sc.rate, "rate", 10, "Annual interest rate in percent")
	cmd.Flags().Float64Var(&sc.months, "months", 60, "Tenure in months")
	cmd.Flags().Float64Var(&sc.years, "years", 0, "Tenure in years, implies --mode years")
	cmd.Flags().StringVar(&sc.mode, "mode", "", "Tenure mode: months or years")
	cmd.Flags().StringVar(&sc.start, "start", "", "Date of the first installment (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&sc.view, "view", "monthly", "Schedule view: monthly or yearly")
	cmd.Flags().StringVar(&sc.format, "format", "table", "Output format: table, csv, json, yaml or pdf")
	cmd.Flags().StringVarP(&sc.out, "out", "o", "", "Write to this file instead of stdout")

	return cmd
}

func (sc *scheduleCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	view, err := export.ParseView(sc.view)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(sc.format)
	if err != nil {
		return err
	}

	input := domain.LoanInput{
		Amount:       sc.amount,
		InterestRate: sc.rate,
		TermMonths:   sc.months,
		TermYears:    sc.years,
		Mode:         sc.mode,
		StartDate:    sc.start,
	}
	if input.Mode == "" && cmd.Flags().Changed("years") {
		input.Mode = domain.TenureModeYears
	}

	loans, release, err := sc.cli.newLoanService(ctx)
	if err != nil {
		return err
	}
	defer release()

	money, err := sc.cli.newMoney()
	if err != nil {
		return err
	}

	schedule, err := loans.DatedSchedule(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to compute schedule: %w", err)
	}

	report := export.NewReport(schedule, view)
	writer := export.NewWriter(format, money)

	if sc.out == "" {
		return writer.Write(sc.cli.out, report)
	}
	if err := writeFile(sc.out, writer, report); err != nil {
		return err
	}
	sc.cli.logger.Info().
		Str("path", sc.out).
		Str("format", string(format)).
		Int("rows", len(report.Rows)).
		Msg("report written")
	return nil
}

func writeFile(path string, writer *export.Writer, report export.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := writer.Write(f, report); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
