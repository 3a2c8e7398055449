// Package variant assembles loans for each product and runs them through the
// engine. Every function here is pure: same input, same result.
package variant

import (
	"loan-engine/domain"
	"loan-engine/engine"
	"loan-engine/solver"
)

const monthsPerYear = 12

// Library runs the product variants. The solver settings are the only state.
type Library struct {
	Solver solver.Config
}

// NewLibrary returns a Library using cfg for every rate and tenure solve.
func NewLibrary(cfg solver.Config) Library {
	return Library{Solver: cfg}
}

// Terms are the inputs shared by most products.
type Terms struct {
	Principal  float64
	AnnualRate float64 // percent a year
	Months     int
}

func (t Terms) periodicRate() float64 {
	return t.AnnualRate / 100 / monthsPerYear
}

func (t Terms) loan(policy domain.PaymentPolicy) domain.Loan {
	return domain.Loan{
		Principal:   t.Principal,
		Rates:       domain.ConstantRate(t.periodicRate()),
		Policy:      policy,
		PeriodCount: t.Months,
	}
}

// Calendar places period 1 of a schedule in a calendar month.
type Calendar struct {
	StartYear  int
	StartMonth int
}

// Result is a simulated schedule with its totals.
type Result struct {
	Loan    domain.Loan
	EMI     float64
	Periods []domain.PeriodRecord
	Years   []domain.YearBucket
	Summary domain.Summary
}

func simulate(loan domain.Loan, cal Calendar) (Result, error) {
	periods, err := engine.Simulate(loan)
	if err != nil {
		return Result{}, err
	}
	years, err := engine.Aggregate(periods, cal.StartYear, cal.StartMonth)
	if err != nil {
		return Result{}, domain.NewInvalidLoanError(err.Error())
	}
	return Result{
		Loan:    loan,
		EMI:     periods[0].PaymentMade,
		Periods: periods,
		Years:   years,
		Summary: engine.Summarize(periods),
	}, nil
}

// annualPercent converts a monthly periodic rate to a nominal annual percent.
func annualPercent(periodic float64) float64 {
	return periodic * monthsPerYear * 100
}
