package variant

import (
	"loan-engine/domain"
	"loan-engine/engine"
	"loan-engine/solver"
)

// APR is an annual percentage rate that folds an upfront fee into the cost
// of the loan. It is solved against the level EMI, so it is approximate when
// the last payment is truncated.
type APR struct {
	solver.RateSolution
	AnnualRate  float64 // percent a year
	Approximate bool
}

func (l Library) apr(principal, fees, emi float64, months int, advance bool) (APR, error) {
	sol, err := l.Solver.SolveAPR(principal, fees, emi, months, advance)
	if err != nil {
		return APR{}, err
	}
	return APR{RateSolution: sol, AnnualRate: annualPercent(sol.Rate), Approximate: true}, nil
}

// TenureInput asks how long an EMI takes to repay a loan.
type TenureInput struct {
	Principal  float64
	EMI        float64
	AnnualRate float64 // percent a year
	Fees       float64
	Advance    bool
}

// TenureResult is the solved tenure with the schedule it implies.
type TenureResult struct {
	Result
	Tenure          solver.TenureSolution
	WholeYears      int
	RemainingMonths int
	APR             APR
	TotalPayment    float64 // includes fees
}

// Tenure solves the number of months, then simulates the loan at that
// tenure so the last, shorter payment is exact.
func (l Library) Tenure(in TenureInput, cal Calendar) (TenureResult, error) {
	rate := in.AnnualRate / 100 / monthsPerYear
	tenure, err := l.Solver.SolveTenure(in.Principal, in.EMI, rate, in.Advance)
	if err != nil {
		return TenureResult{}, err
	}
	loan := domain.Loan{
		Principal:   in.Principal,
		Rates:       domain.ConstantRate(rate),
		Policy:      domain.FixedAnnuity{Amount: in.EMI},
		PeriodCount: tenure.Periods,
		Advance:     in.Advance,
	}
	res, err := simulate(loan, cal)
	if err != nil {
		return TenureResult{}, err
	}
	apr, err := l.apr(in.Principal, in.Fees, in.EMI, tenure.Periods, in.Advance)
	if err != nil {
		return TenureResult{}, err
	}
	return TenureResult{
		Result:          res,
		Tenure:          tenure,
		WholeYears:      tenure.Periods / monthsPerYear,
		RemainingMonths: tenure.Periods % monthsPerYear,
		APR:             apr,
		TotalPayment:    engine.Round(res.Summary.TotalPayment + in.Fees),
	}, nil
}

// RateInput asks which interest rate an EMI implies.
type RateInput struct {
	Principal float64
	EMI       float64
	Months    int
	Fees      float64
	Advance   bool
}

// RateResult is the solved rate.
type RateResult struct {
	Rate          solver.RateSolution
	AnnualRate    float64 // percent a year
	APR           APR
	TotalInterest float64
	TotalPayment  float64 // includes fees
}

// InterestRate solves the periodic rate by bisection. A solve that hits the
// iteration ceiling is returned with Converged unset, not as an error.
func (l Library) InterestRate(in RateInput) (RateResult, error) {
	sol, err := l.Solver.SolveRate(in.Principal, in.EMI, in.Months, in.Advance)
	if err != nil {
		return RateResult{}, err
	}
	apr, err := l.apr(in.Principal, in.Fees, in.EMI, in.Months, in.Advance)
	if err != nil {
		return RateResult{}, err
	}
	paid := in.EMI * float64(in.Months)
	return RateResult{
		Rate:          sol,
		AnnualRate:    annualPercent(sol.Rate),
		APR:           apr,
		TotalInterest: engine.Round(paid - in.Principal),
		TotalPayment:  engine.Round(paid + in.Fees),
	}, nil
}

// AmountInput asks how much an EMI can borrow.
type AmountInput struct {
	EMI        float64
	AnnualRate float64 // percent a year
	Months     int
	Fees       float64
	Advance    bool
}

// AmountResult is the affordable principal with its schedule.
type AmountResult struct {
	Result
	Principal    float64
	APR          APR
	TotalPayment float64 // includes fees
}

// LoanAmount discounts the EMI stream back to a principal.
func (l Library) LoanAmount(in AmountInput, cal Calendar) (AmountResult, error) {
	if in.EMI <= 0 || in.Months <= 0 || in.AnnualRate < 0 {
		return AmountResult{}, domain.NewInvalidLoanError("EMI and tenure must be positive and the rate not negative")
	}
	rate := in.AnnualRate / 100 / monthsPerYear
	principal := solver.PresentValue(in.EMI, rate, in.Months, in.Advance)

	loan := domain.Loan{
		Principal:   principal,
		Rates:       domain.ConstantRate(rate),
		Policy:      domain.ComputedAnnuity{},
		PeriodCount: in.Months,
		Advance:     in.Advance,
	}
	res, err := simulate(loan, cal)
	if err != nil {
		return AmountResult{}, err
	}
	apr, err := l.apr(principal, in.Fees, in.EMI, in.Months, in.Advance)
	if err != nil {
		return AmountResult{}, err
	}
	return AmountResult{
		Result:       res,
		Principal:    engine.Round(principal),
		APR:          apr,
		TotalPayment: engine.Round(res.Summary.TotalPayment + in.Fees),
	}, nil
}
