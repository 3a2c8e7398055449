package cli

import (
	"github.com/spf13/cobra"

	"loan-engine/config"
	"loan-engine/domain"
)

func newSolveRateCommand(opts *options) *cobra.Command {
	var req domain.InterestRateRequest
	cmd := &cobra.Command{
		Use:   "solve-rate",
		Short: "Solve the annual interest rate implied by an EMI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			resp, err := offlineService(cfg).CalculateInterestRate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.LoanAmount, "amount", 0, "loan amount")
	f.Float64Var(&req.EMI, "emi", 0, "monthly installment")
	f.IntVar(&req.TenureYears, "years", 0, "tenure years")
	f.IntVar(&req.TenureMonths, "months", 0, "additional tenure months")
	f.Float64Var(&req.FeesCharges, "fees", 0, "upfront fees, used for the APR")
	f.StringVar(&req.EMIScheme, "scheme", domain.SchemeArrears, "EMI scheme: arrears or advance")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("emi")
	return cmd
}

func newSolveTenureCommand(opts *options) *cobra.Command {
	var req domain.TenureRequest
	cmd := &cobra.Command{
		Use:   "solve-tenure",
		Short: "Solve the tenure needed to repay a loan at an EMI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			resp, err := offlineService(cfg).CalculateTenure(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.LoanAmount, "amount", 0, "loan amount")
	f.Float64Var(&req.EMI, "emi", 0, "monthly installment")
	f.Float64Var(&req.InterestRate, "rate", 0, "annual interest rate in percent")
	f.Float64Var(&req.FeesCharges, "fees", 0, "upfront fees, used for the APR")
	f.StringVar(&req.EMIScheme, "scheme", domain.SchemeArrears, "EMI scheme: arrears or advance")
	f.IntVar(&req.StartYear, "start-year", 0, "calendar year of the first payment (default: current)")
	f.IntVar(&req.StartMonth, "start-month", 0, "month of the first payment, 1-12 (default: current)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("emi")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}
