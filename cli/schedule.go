package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"loan-engine/config"
	"loan-engine/domain"
)

func newScheduleCommand(opts *options) *cobra.Command {
	var (
		req    domain.EMIRequest
		scheme string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the yearly schedule of a standard EMI loan as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			switch scheme {
			case domain.SchemeArrears:
			case domain.SchemeAdvance:
				req.EMIAdvance = true
			default:
				return fmt.Errorf("unknown EMI scheme %q", scheme)
			}

			resp, err := offlineService(cfg).CalculateEMI(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.LoanAmount, "amount", 0, "loan amount")
	f.Float64Var(&req.InterestRate, "rate", 0, "annual interest rate in percent")
	f.IntVar(&req.TenureYears, "years", 0, "tenure years")
	f.IntVar(&req.TenureMonths, "months", 0, "additional tenure months")
	f.StringVar(&scheme, "scheme", domain.SchemeArrears, "EMI scheme: arrears or advance")
	f.IntVar(&req.StartYear, "start-year", 0, "calendar year of the first payment (default: current)")
	f.IntVar(&req.StartMonth, "start-month", 0, "month of the first payment, 1-12 (default: current)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}
