package variant

import (
	"errors"

	"loan-engine/domain"
	"loan-engine/solver"
)

// FlatRateResult carries the reducing-balance rate that would cost the same
// EMI. That rate compares products; it is not a property of the flat loan.
type FlatRateResult struct {
	Result
	EquivalentRate solver.RateSolution
	// EquivalentAnnualRate is EquivalentRate as a nominal annual percent.
	EquivalentAnnualRate float64
	Approximate          bool
	// Unavailable is set, with the reason, when no reducing rate inside the
	// solver's range matches the EMI. The schedule is still valid.
	Unavailable string
}

// FlatRate charges interest on the original principal for the whole tenure,
// spread evenly over the months.
func (l Library) FlatRate(t Terms, cal Calendar) (FlatRateResult, error) {
	loan := domain.Loan{
		Principal:   t.Principal,
		Rates:       domain.ConstantRate(0),
		Policy:      domain.FlatRate{AnnualRatePercent: t.AnnualRate, PeriodsPerYear: monthsPerYear},
		PeriodCount: t.Months,
	}
	res, err := simulate(loan, cal)
	if err != nil {
		return FlatRateResult{}, err
	}

	n := float64(t.Months)
	emi := t.Principal/n + t.Principal*t.AnnualRate/100/monthsPerYear
	eq, err := l.Solver.SolveRate(t.Principal, emi, t.Months, false)
	var infeasible *domain.InfeasibleRateError
	if errors.As(err, &infeasible) {
		return FlatRateResult{Result: res, Approximate: true, Unavailable: infeasible.Reason}, nil
	}
	if err != nil {
		return FlatRateResult{}, err
	}
	return FlatRateResult{
		Result:               res,
		EquivalentRate:       eq,
		EquivalentAnnualRate: annualPercent(eq.Rate),
		Approximate:          true,
	}, nil
}
