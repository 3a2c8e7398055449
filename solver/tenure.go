package solver

import (
	"fmt"
	"math"

	"loan-engine/domain"
)

// tenureSnap is how close to an integer a solved tenure must be to count as
// that integer rather than the next one.
const tenureSnap = 1e-6

// TenureSolution holds the whole number of periods needed and the exact
// fractional solution it was rounded from.
type TenureSolution struct {
	Periods int
	Exact   float64
}

// SolveTenure inverts the annuity formula for the number of periods:
//
//	n = ln(E / (E - P*r)) / ln(1+r)
//
// For payments in advance E is replaced by E*(1+r). The result is rejected
// when it exceeds TenureCeiling.
func (c Config) SolveTenure(principal, payment, rate float64, advance bool) (TenureSolution, error) {
	exact, err := ExactTenure(principal, payment, rate, advance)
	if err != nil {
		return TenureSolution{}, err
	}

	periods := WholePeriods(exact)
	if periods <= 0 {
		return TenureSolution{}, &domain.InfeasibleTenureError{Reason: "tenure rounds to zero periods"}
	}
	if c.TenureCeiling > 0 && periods > c.TenureCeiling {
		return TenureSolution{}, &domain.InfeasibleTenureError{
			Reason: fmt.Sprintf("EMI too low: repayment would take %d periods, above the limit of %d", periods, c.TenureCeiling),
		}
	}
	return TenureSolution{Periods: periods, Exact: exact}, nil
}

// ExactTenure is the unrounded, unbounded tenure.
func ExactTenure(principal, payment, rate float64, advance bool) (float64, error) {
	if principal <= 0 || payment <= 0 {
		return 0, &domain.InfeasibleTenureError{Reason: "principal and payment must be positive"}
	}
	if rate == 0 {
		return principal / payment, nil
	}

	effective := payment
	if advance {
		effective = payment * (1 + rate)
	}
	interest := principal * rate
	if effective <= interest {
		return 0, &domain.InfeasibleTenureError{
			Reason: fmt.Sprintf("EMI too low: %.2f does not cover the first period's interest of %.2f", payment, interest),
		}
	}
	return math.Log(effective/(effective-interest)) / math.Log1p(rate), nil
}

// WholePeriods rounds a fractional tenure up, unless it is an integer up to
// floating point noise.
func WholePeriods(exact float64) int {
	if nearest := math.Round(exact); math.Abs(exact-nearest) < tenureSnap {
		return int(nearest)
	}
	return int(math.Ceil(exact))
}
