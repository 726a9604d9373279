package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpLayer "loan-emi/http"
	"loan-emi/service"
)

func (c *CLI) newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loans, release, err := c.newLoanService(ctx)
			if err != nil {
				return err
			}
			defer release()

			money, err := c.newMoney()
			if err != nil {
				return err
			}

			if addr != "" {
				c.cfg.Server.Addr = addr
			}

			server := httpLayer.NewServer(c.logger, httpLayer.Config{
				Addr:            c.cfg.Server.Addr,
				ShutdownTimeout: c.cfg.Server.ShutdownTimeout,
				RateCapacity:    c.cfg.Server.RateLimit.Capacity,
				RateRefill:      c.cfg.Server.RateLimit.Refill,
				Dependencies: httpLayer.Dependencies{
					Loans:           loans,
					Recommendations: service.NewTermRecommendationService(loans),
					Money:           money,
				},
			})

			c.logger.Info().
				Str("validation", string(loans.Policy())).
				Int("rate_capacity", c.cfg.Server.RateLimit.Capacity).
				Msg("loan API configured")
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	return cmd
}
