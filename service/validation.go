package service

import (
	"time"

	"loan-engine/domain"
	"loan-engine/variant"
)

// Limits are the ceilings requests are checked against before any
// simulation runs.
type Limits struct {
	MaxPrincipal    float64
	MaxAnnualRate   float64
	MaxTenureMonths int
}

// DefaultLimits applies when no limits are configured.
var DefaultLimits = Limits{
	MaxPrincipal:    MaxLoanAmount,
	MaxAnnualRate:   MaxInterestRate,
	MaxTenureMonths: MaxTermMonths,
}

func (l Limits) amount(field string, v float64) error {
	if v <= 0 {
		return invalid(field, "must be positive")
	}
	if v > l.MaxPrincipal {
		return invalid(field, "exceeds the maximum of %.2f", l.MaxPrincipal)
	}
	return nil
}

func (l Limits) rate(field string, v float64) error {
	if v < 0 {
		return invalid(field, "must not be negative")
	}
	if v > l.MaxAnnualRate {
		return invalid(field, "exceeds the maximum of %.2f%%", l.MaxAnnualRate)
	}
	return nil
}

func (l Limits) tenure(years, months int) (int, error) {
	if years < 0 || months < 0 {
		return 0, invalid("tenureMonths", "tenure must not be negative")
	}
	total := years*12 + months
	if total < MinTermMonths {
		return 0, invalid("tenureMonths", "tenure must be at least %d month", MinTermMonths)
	}
	if total > l.MaxTenureMonths {
		return 0, invalid("tenureMonths", "tenure exceeds the maximum of %d months", l.MaxTenureMonths)
	}
	return total, nil
}

func (l Limits) terms(t domain.LoanTerms) (variant.Terms, error) {
	if err := l.amount("loanAmount", t.LoanAmount); err != nil {
		return variant.Terms{}, err
	}
	if err := l.rate("interestRate", t.InterestRate); err != nil {
		return variant.Terms{}, err
	}
	months, err := l.tenure(t.TenureYears, t.TenureMonths)
	if err != nil {
		return variant.Terms{}, err
	}
	return variant.Terms{Principal: t.LoanAmount, AnnualRate: t.InterestRate, Months: months}, nil
}

func fees(v float64) error {
	if v < 0 {
		return invalid("feesCharges", "must not be negative")
	}
	return nil
}

// scheme reports whether the EMI is paid in advance. Empty means arrears.
func scheme(s string) (bool, error) {
	switch s {
	case "", domain.SchemeArrears:
		return false, nil
	case domain.SchemeAdvance:
		return true, nil
	}
	return false, invalid("emiScheme", "must be %q or %q", domain.SchemeArrears, domain.SchemeAdvance)
}

// calendar fills an unset start with the current month.
func calendar(c domain.Calendar, now time.Time) (domain.Calendar, error) {
	if c.StartYear == 0 && c.StartMonth == 0 {
		return domain.Calendar{StartYear: now.Year(), StartMonth: int(now.Month())}, nil
	}
	if c.StartMonth < 1 || c.StartMonth > 12 {
		return c, invalid("startMonth", "must be between 1 and 12")
	}
	if c.StartYear < 1 {
		return c, invalid("startYear", "must be positive")
	}
	return c, nil
}

func toVariant(c domain.Calendar) variant.Calendar {
	return variant.Calendar{StartYear: c.StartYear, StartMonth: c.StartMonth}
}
