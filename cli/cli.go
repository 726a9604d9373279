// Package cli wires configuration, logging and the loan services into the
// emi command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"loan-emi/config"
	"loan-emi/export"
	"loan-emi/repository"
	"loan-emi/service"
)

// CLI represents the command-line interface
type CLI struct {
	out        io.Writer
	errOut     io.Writer
	configPath string
	envFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	rootCmd    *cobra.Command
}

// Options contain the streams the CLI writes to
type Options struct {
	// Output receives reports. Defaults to stdout.
	Output io.Writer
	// ErrOutput receives logs. Defaults to stderr.
	ErrOutput io.Writer
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}

	cli := &CLI{
		out:    opts.Output,
		errOut: opts.ErrOutput,
		logger: zerolog.Nop(),
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

func (c *CLI) ExecuteContext(ctx context.Context) error {
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "emi",
		Short:             "Fixed-rate loan EMI calculator",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	cmd.SetOut(c.out)
	cmd.SetErr(c.errOut)

	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "Dotenv file loaded before the config")

	cmd.AddCommand(c.newServeCmd())
	cmd.AddCommand(c.newScheduleCmd())
	cmd.AddCommand(c.newRecommendCmd())

	return cmd
}

// setup loads the dotenv file and the config, then attaches the root logger
// to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", c.envFile, err)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, c.errOut)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

func newLogger(cfg config.LogConfig, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log.level %q: %w", cfg.Level, err)
	}

	w := out
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// newLoanService builds the service over Redis when cache.redis_addr is set
// and over an in-memory LRU otherwise. The returned func releases the cache.
func (c *CLI) newLoanService(ctx context.Context) (*service.LoanService, func(), error) {
	policy, err := service.ParsePolicy(c.cfg.Loan.Validation)
	if err != nil {
		return nil, nil, err
	}

	cache, release := c.newCache(ctx)
	return service.NewLoanService(cache, service.WithPolicy(policy)), release, nil
}

func (c *CLI) newCache(ctx context.Context) (repository.CacheRepository, func()) {
	cfg := c.cfg.Cache
	if cfg.RedisAddr == "" {
		c.logger.Debug().Int("size", cfg.Size).Dur("ttl", cfg.TTL).Msg("using in-memory cache")
		return repository.NewMemoryCache(cfg.Size, cfg.TTL), func() {}
	}

	redis := repository.NewRedisCache(cfg.RedisAddr, cfg.TTL)
	if err := redis.Ping(ctx); err != nil {
		c.logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, schedules will not be cached")
	} else {
		c.logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis cache")
	}
	return redis, func() {
		if err := redis.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}

func (c *CLI) newMoney() (*export.Money, error) {
	return export.NewMoney(c.cfg.Loan.Locale, c.cfg.Loan.CurrencySymbol)
}
