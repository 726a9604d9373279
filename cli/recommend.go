package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"loan-emi/domain"
	"loan-emi/export"
	"loan-emi/service"
)

type recommendCmd struct {
	cli    *CLI
	input  domain.TermRecommendationInput
	format string
}

func (c *CLI) newRecommendCmd() *cobra.Command {
	rc := &recommendCmd{cli: c}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank tenures whose installment fits a monthly budget",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().Float64Var(&rc.input.Amount, "amount", 0, "Principal")
	cmd.Flags().Float64Var(&rc.input.InterestRate, "rate", 0, "Annual interest rate in percent")
	cmd.Flags().IntVar(&rc.input.MinTermMonths, "min", 12, "Shortest tenure in months")
	cmd.Flags().IntVar(&rc.input.MaxTermMonths, "max", 60, "Longest tenure in months")
	cmd.Flags().Float64Var(&rc.input.MaxMonthlyPayment, "max-payment", 0, "Largest affordable installment")
	cmd.Flags().StringVar(&rc.input.Preference, "preference", domain.PreferBalanced,
		"minimize_interest, minimize_payment or balanced")
	cmd.Flags().StringVar(&rc.format, "format", "table", "Output format: table, json or yaml")

	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("max-payment")

	return cmd
}

func (rc *recommendCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, err := export.ParseFormat(rc.format)
	if err != nil {
		return err
	}
	switch format {
	case export.FormatTable, export.FormatJSON, export.FormatYAML:
	default:
		return fmt.Errorf("format %q is not supported for recommendations", format)
	}

	loans, release, err := rc.cli.newLoanService(ctx)
	if err != nil {
		return err
	}
	defer release()

	result, err := service.NewTermRecommendationService(loans).RecommendTerm(ctx, rc.input)
	if err != nil {
		return fmt.Errorf("failed to recommend a tenure: %w", err)
	}

	switch format {
	case export.FormatJSON:
		enc := json.NewEncoder(rc.cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case export.FormatYAML:
		enc := yaml.NewEncoder(rc.cli.out)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}

	money, err := rc.cli.newMoney()
	if err != nil {
		return err
	}
	return writeRecommendations(rc.cli.out, result, money)
}

func writeRecommendations(out io.Writer, result domain.TermRecommendationResult, money *export.Money) error {
	fmt.Fprintf(out, "Recommended tenure: %d months\n", result.RecommendedTerm)
	fmt.Fprintf(out, "%s\n\n", result.Recommendations[0].Reason)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Months\tInstallment\tTotal interest\tScore\t\n")
	for _, r := range result.Recommendations {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t\n",
			r.TermMonths,
			money.Cents(r.MonthlyPayment),
			money.Cents(r.TotalInterest),
			r.Score)
	}
	return tw.Flush()
}
