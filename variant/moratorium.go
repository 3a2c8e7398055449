package variant

import (
	"fmt"

	"loan-engine/domain"
)

// MoratoriumMode says what the borrower pays during the moratorium.
type MoratoriumMode int

const (
	// MoratoriumFull defers everything; interest capitalizes at the end.
	MoratoriumFull MoratoriumMode = iota
	// MoratoriumInterestOnly services interest; the principal is untouched.
	MoratoriumInterestOnly
	// MoratoriumNone amortizes from the first month.
	MoratoriumNone
)

func (m MoratoriumMode) String() string {
	switch m {
	case MoratoriumFull:
		return "full"
	case MoratoriumInterestOnly:
		return "interest_only"
	case MoratoriumNone:
		return "none"
	}
	return fmt.Sprintf("MoratoriumMode(%d)", int(m))
}

// ParseMoratoriumMode accepts the String form of a mode.
func ParseMoratoriumMode(s string) (MoratoriumMode, error) {
	for _, m := range []MoratoriumMode{MoratoriumFull, MoratoriumInterestOnly, MoratoriumNone} {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown moratorium mode %q", s)
}

// MoratoriumInput is an education-style loan with a deferral window at the
// start of the tenure. Months counts the moratorium.
type MoratoriumInput struct {
	Terms
	MoratoriumMonths int
	Mode             MoratoriumMode
}

// MoratoriumResult reports the deferral actually applied and its cost.
type MoratoriumResult struct {
	Result
	DeferredMonths       int
	CapitalizedInterest  float64
	InterestDuringWindow float64
	// BalloonDue is left owing when the window covers the whole tenure.
	BalloonDue float64
}

// Moratorium runs the loan with a deferral window. A window longer than the
// tenure is clipped to it, and the loan then never amortizes.
func (Library) Moratorium(in MoratoriumInput, cal Calendar) (MoratoriumResult, error) {
	if in.MoratoriumMonths < 0 {
		return MoratoriumResult{}, domain.NewInvalidLoanError("moratorium months must not be negative")
	}
	loan := in.loan(domain.ComputedAnnuity{})

	deferred := in.MoratoriumMonths
	if deferred > in.Months {
		deferred = in.Months
	}
	if in.Mode == MoratoriumNone {
		deferred = 0
	}
	if deferred > 0 {
		loan.Events = []domain.ScheduledEvent{{
			Period: deferred,
			Event: domain.MoratoriumEnd{
				MonthsDeferred:  deferred,
				ServiceInterest: in.Mode == MoratoriumInterestOnly,
			},
		}}
	}

	res, err := simulate(loan, cal)
	if err != nil {
		return MoratoriumResult{}, err
	}

	out := MoratoriumResult{Result: res, DeferredMonths: deferred}
	out.EMI = 0
	if deferred < len(res.Periods) {
		out.EMI = res.Periods[deferred].PaymentMade
	}
	for _, r := range res.Periods[:deferred] {
		out.CapitalizedInterest += r.Capitalized
		out.InterestDuringWindow += r.InterestAccrued
	}
	out.BalloonDue = res.Summary.ClosingBalance
	return out, nil
}
