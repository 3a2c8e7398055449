package variant

import (
	"loan-engine/domain"
)

// Standard is a level-EMI loan, paid in arrears or in advance.
func (Library) Standard(t Terms, advance bool, cal Calendar) (Result, error) {
	loan := t.loan(domain.ComputedAnnuity{})
	loan.Advance = advance
	return simulate(loan, cal)
}

// EqualPrincipal repays the same principal every month; the EMI falls as
// the balance does.
func (Library) EqualPrincipal(t Terms, cal Calendar) (Result, error) {
	return simulate(t.loan(domain.FixedPrincipal{}), cal)
}

// BulletResult is an interest-only loan with the principal due at the end.
type BulletResult struct {
	Result
	Balloon float64
}

// Bullet charges interest monthly and repays all principal with the last
// payment.
func (Library) Bullet(t Terms, cal Calendar) (BulletResult, error) {
	res, err := simulate(t.loan(domain.InterestOnly{}), cal)
	if err != nil {
		return BulletResult{}, err
	}
	return BulletResult{Result: res, Balloon: res.Summary.LastPayment}, nil
}

// Phase is one segment of a phased-rate loan.
type Phase struct {
	FromMonth  int
	AnnualRate float64 // percent a year
}

// PhaseEMI is the EMI in force at the start of a phase.
type PhaseEMI struct {
	Phase
	EMI float64
}

// PhasedResult is a phased-rate schedule with the EMI of each phase.
type PhasedResult struct {
	Result
	Phases []PhaseEMI
}

// PhasedRate runs a loan whose rate steps at fixed months. The EMI is
// re-solved for the remaining balance and tenure at every step.
func (Library) PhasedRate(principal float64, months int, phases []Phase, cal Calendar) (PhasedResult, error) {
	rates := make(domain.RateSchedule, len(phases))
	for i, ph := range phases {
		rates[i] = domain.RateStep{FromPeriod: ph.FromMonth, Rate: ph.AnnualRate / 100 / monthsPerYear}
	}
	loan := domain.Loan{
		Principal:   principal,
		Rates:       rates,
		Policy:      domain.ComputedAnnuity{},
		PeriodCount: months,
	}
	res, err := simulate(loan, cal)
	if err != nil {
		return PhasedResult{}, err
	}

	out := PhasedResult{Result: res}
	for _, ph := range phases {
		if ph.FromMonth > len(res.Periods) {
			break
		}
		out.Phases = append(out.Phases, PhaseEMI{Phase: ph, EMI: res.Periods[ph.FromMonth-1].PaymentMade})
	}
	return out, nil
}
