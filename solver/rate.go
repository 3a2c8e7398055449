package solver

import (
	"fmt"
	"math"

	"loan-engine/domain"
)

// RateSolution is the outcome of a rate bisection. When Converged is false
// the iteration ceiling was reached and Rate is the last midpoint: a usable
// estimate with degraded precision.
type RateSolution struct {
	Rate       float64
	Iterations int
	Converged  bool
}

// SolveRate finds the periodic rate at which the annuity payment for
// (principal, n) equals payment.
func (c Config) SolveRate(principal, payment float64, n int, advance bool) (RateSolution, error) {
	if principal <= 0 || payment <= 0 || n <= 0 {
		return RateSolution{}, &domain.InfeasibleRateError{Reason: "principal, payment and tenure must be positive"}
	}
	return c.bisect(func(rate float64) float64 {
		return Payment(principal, rate, n, advance)
	}, payment)
}

// SolveAPR finds the periodic rate at which the payment stream is worth the
// amount actually disbursed, principal minus the upfront fee.
func (c Config) SolveAPR(principal, fee, payment float64, n int, advance bool) (RateSolution, error) {
	if fee < 0 {
		return RateSolution{}, &domain.InfeasibleRateError{Reason: "fees must not be negative"}
	}
	if fee >= principal {
		return RateSolution{}, &domain.InfeasibleRateError{Reason: "fees consume the whole loan amount"}
	}
	return c.SolveRate(principal-fee, payment, n, advance)
}

// bisect searches [0, ceiling] for the rate where paymentAt(rate) hits
// target. paymentAt must increase with the rate.
func (c Config) bisect(paymentAt func(rate float64) float64, target float64) (RateSolution, error) {
	lo, hi := 0.0, c.periodicCeiling()

	floor := paymentAt(lo)
	if math.Abs(floor-target) < c.Tolerance {
		return RateSolution{Rate: 0, Converged: true}, nil
	}
	if floor > target {
		return RateSolution{}, &domain.InfeasibleRateError{
			Reason: fmt.Sprintf("payment %.2f does not repay the principal even at zero interest", target),
		}
	}
	if paymentAt(hi) < target-c.Tolerance {
		return RateSolution{}, &domain.InfeasibleRateError{
			Reason: fmt.Sprintf("payment %.2f implies a rate above %.0f%% a year", target, c.AnnualRateCeiling*100),
		}
	}

	mid := lo
	for i := 1; i <= c.MaxIterations; i++ {
		mid = (lo + hi) / 2
		diff := paymentAt(mid) - target
		if math.Abs(diff) < c.Tolerance {
			return RateSolution{Rate: mid, Iterations: i, Converged: true}, nil
		}
		if diff < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return RateSolution{Rate: mid, Iterations: c.MaxIterations, Converged: false}, nil
}
