// Package cli holds the loan-engine commands: the HTTP service and offline
// schedule and solver tools.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"loan-engine/config"
	"loan-engine/repository"
	"loan-engine/service"
	"loan-engine/solver"
	"loan-engine/variant"
)

type options struct {
	cfgFile string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "loan-engine",
		Short: "Loan amortization and solver engine",
		Long: `loan-engine simulates loan schedules and solves for the
unknown rate, tenure or amount of a loan.

Commands:
  serve         - HTTP calculator service
  schedule      - print a standard EMI schedule
  solve-rate    - interest rate implied by an EMI
  solve-tenure  - tenure needed to repay a loan at an EMI`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (.toml, .yaml or .yml)")

	root.AddCommand(
		newServeCommand(opts),
		newScheduleCommand(opts),
		newSolveRateCommand(opts),
		newSolveTenureCommand(opts),
	)
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}

// offlineService builds a LoanService with in-memory stores for the one-shot
// commands.
func offlineService(cfg *config.Config) *service.LoanService {
	return newLoanService(cfg,
		repository.NewCalculationRepositoryMemory(1),
		repository.NewMemoryCache(),
		zap.NewNop(),
	)
}

func newLoanService(
	cfg *config.Config,
	history repository.CalculationRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *service.LoanService {
	lib := variant.NewLibrary(solverConfig(cfg))
	return service.NewLoanService(lib, history, cache, service.Options{
		Limits: service.Limits{
			MaxPrincipal:    cfg.Limits.MaxPrincipal,
			MaxAnnualRate:   cfg.Limits.MaxAnnualRate,
			MaxTenureMonths: cfg.Limits.MaxTenureMonths,
		},
		CacheTTL: cfg.Redis.TTL.Duration,
		Logger:   logger,
	})
}

func solverConfig(cfg *config.Config) solver.Config {
	sc := solver.DefaultConfig
	sc.Tolerance = cfg.Solver.Tolerance
	sc.MaxIterations = cfg.Solver.MaxIterations
	sc.AnnualRateCeiling = cfg.Solver.RateCeiling
	sc.TenureCeiling = cfg.Solver.TenureCeiling
	return sc
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
