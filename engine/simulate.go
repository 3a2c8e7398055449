package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"loan-engine/domain"
	"loan-engine/solver"
)

// settledBalance is the full-precision balance below which a loan counts as
// closed.
const settledBalance = 1e-6

// Simulate walks the loan forward one period at a time and returns its
// schedule. The schedule stops early once the balance reaches zero.
//
// Balances are carried in full precision between periods; only the emitted
// records are rounded.
func Simulate(loan domain.Loan) ([]domain.PeriodRecord, error) {
	if err := Validate(loan); err != nil {
		return nil, err
	}
	return newSimulation(loan).run(), nil
}

type simulation struct {
	loan   domain.Loan
	rates  domain.RateSchedule
	events map[int][]domain.Event

	balance float64
	termEnd int

	deferUntil      int
	serviceInterest bool

	// level payment for annuity policies, principal share for
	// equal-principal and flat policies
	payment        float64
	principalShare float64
	flatInterest   float64
	resolve        bool

	basis       float64 // principal plus everything capitalized so far
	repaid      float64
	repaidShown decimal.Decimal
}

func newSimulation(loan domain.Loan) *simulation {
	s := &simulation{
		loan:    loan,
		rates:   append(domain.RateSchedule(nil), loan.Rates...),
		events:  make(map[int][]domain.Event, len(loan.Events)),
		balance: loan.Principal,
		termEnd: loan.PeriodCount,
		basis:   loan.Principal,
		resolve: true,
	}
	for _, se := range loan.Events {
		s.events[se.Period] = append(s.events[se.Period], se.Event)
		if end, ok := se.Event.(domain.MoratoriumEnd); ok {
			s.deferUntil = se.Period
			s.serviceInterest = end.ServiceInterest
		}
	}
	switch p := loan.Policy.(type) {
	case domain.FixedAnnuity:
		s.payment = p.Amount
		s.resolve = false
	case domain.FlatRate:
		s.flatInterest = loan.Principal * p.AnnualRatePercent / 100 / float64(p.PeriodsPerYear)
	}
	return s
}

func (s *simulation) run() []domain.PeriodRecord {
	records := make([]domain.PeriodRecord, 0, s.loan.PeriodCount)
	for p := 1; p <= s.termEnd; p++ {
		rate := s.rates.RateAt(p)
		if s.rates.ChangesAt(p) {
			if _, ok := s.loan.Policy.(domain.ComputedAnnuity); ok {
				s.resolve = true
			}
		}

		opening := s.balance
		var interest, principal, payment float64
		if p <= s.deferUntil {
			interest, payment = s.deferred(opening, rate)
		} else {
			interest, principal, payment = s.amortize(p, opening, rate)
		}

		closing := opening + interest - payment
		if closing < settledBalance {
			closing = 0
		}
		if payment < interest {
			s.basis += interest - payment
		}
		s.balance = closing

		prepaid, capitalized := s.applyEvents(p, rate)
		if s.balance < settledBalance {
			s.balance = 0
		}

		records = append(records, s.emit(p, opening, interest, principal, payment, prepaid, capitalized))
		if s.balance == 0 {
			break
		}
	}
	return records
}

// deferred is a moratorium period: nothing is paid, or just the interest.
// Unpaid interest is capitalized when the moratorium ends.
func (s *simulation) deferred(opening, rate float64) (interest, payment float64) {
	if !s.serviceInterest {
		return 0, 0
	}
	interest = opening * rate
	return interest, interest
}

func (s *simulation) amortize(p int, opening, rate float64) (interest, principal, payment float64) {
	if s.resolve {
		s.resolvePayment(p, opening, rate)
		s.resolve = false
	}
	last := p == s.termEnd
	interest = opening * rate

	switch pol := s.loan.Policy.(type) {
	case domain.FixedAnnuity, domain.ComputedAnnuity:
		payment = s.payment
	case domain.StepSchedule:
		payment = pol.AmountAt(p - s.deferUntil)
	case domain.StagedAmounts:
		payment = pol.AmountAt(p)
	case domain.FixedPrincipal:
		return byPrincipal(opening, interest, s.principalShare, last)
	case domain.FlatRate:
		return byPrincipal(opening, s.flatInterest, s.principalShare, last)
	case domain.InterestOnly:
		return byPrincipal(opening, interest, 0, last)
	}

	// every policy but a fixed annuity closes the loan at the end of its term
	_, fixed := s.loan.Policy.(domain.FixedAnnuity)
	settle := last && !fixed

	if s.loan.Advance {
		// paid at the start of the period, interest runs on what is left
		if settle || payment >= opening {
			return 0, opening, opening
		}
		interest = (opening - payment) * rate
		return interest, math.Max(0, payment-interest), payment
	}

	if settle {
		return interest, opening, opening + interest
	}
	principal = payment - interest
	if principal > opening {
		principal = opening
		payment = opening + interest
	}
	if principal < 0 {
		// negative amortization: the shortfall is added to the balance
		principal = 0
	}
	return interest, principal, payment
}

// byPrincipal pays a set share of principal plus the interest due. The last
// period takes whatever principal is left.
func byPrincipal(opening, interest, share float64, last bool) (float64, float64, float64) {
	principal := share
	if last || principal > opening {
		principal = opening
	}
	return interest, principal, principal + interest
}

// resolvePayment derives the level payment (or principal share) from the
// balance opening period p and the periods left until termEnd.
func (s *simulation) resolvePayment(p int, opening, rate float64) {
	remaining := s.termEnd - p + 1
	if remaining < 1 {
		remaining = 1
	}
	switch s.loan.Policy.(type) {
	case domain.ComputedAnnuity, domain.FixedAnnuity:
		s.payment = solver.Payment(opening, rate, remaining, s.loan.Advance)
	case domain.FixedPrincipal, domain.FlatRate:
		s.principalShare = opening / float64(remaining)
	}
}

func (s *simulation) applyEvents(p int, rate float64) (prepaid, capitalized float64) {
	for _, ev := range s.events[p] {
		switch e := ev.(type) {
		case domain.PartPrepayment:
			amount := math.Min(e.Amount, s.balance)
			s.balance -= amount
			prepaid += amount
			if s.balance < settledBalance {
				continue
			}
			switch e.Mode {
			case domain.ReduceTenure:
				s.shortenTerm(p)
			case domain.ReduceAnnuity:
				if _, fixed := s.loan.Policy.(domain.FixedAnnuity); fixed {
					s.resolve = true
				}
				s.reshape()
			}
		case domain.RateTransition:
			// the new step triggers re-resolution through ChangesAt
			s.rates = withStep(s.rates, p+1, e.Rate)
		case domain.MoratoriumEnd:
			if !e.ServiceInterest {
				grown := s.balance * math.Pow(1+rate, float64(e.MonthsDeferred))
				capitalized += grown - s.balance
				s.basis += grown - s.balance
				s.balance = grown
			}
			s.reshape()
		}
	}
	return prepaid, capitalized
}

// reshape marks payments that follow the balance for re-resolution.
func (s *simulation) reshape() {
	switch s.loan.Policy.(type) {
	case domain.ComputedAnnuity, domain.FixedPrincipal, domain.FlatRate:
		s.resolve = true
	}
}

// shortenTerm keeps the payment and pulls termEnd in to the number of
// periods that payment now needs.
func (s *simulation) shortenTerm(p int) {
	var left int
	switch s.loan.Policy.(type) {
	case domain.ComputedAnnuity, domain.FixedAnnuity:
		exact, err := solver.ExactTenure(s.balance, s.payment, s.rates.RateAt(p+1), s.loan.Advance)
		if err != nil {
			return
		}
		left = solver.WholePeriods(exact)
	case domain.FixedPrincipal, domain.FlatRate:
		if s.principalShare <= 0 {
			return
		}
		left = solver.WholePeriods(s.balance / s.principalShare)
	default:
		return
	}
	if end := p + left; end < s.termEnd {
		s.termEnd = end
	}
}

// withStep returns a copy of rates with a step at period. Steps already
// scheduled after it stay in place.
func withStep(rates domain.RateSchedule, period int, rate float64) domain.RateSchedule {
	out := make(domain.RateSchedule, 0, len(rates)+1)
	inserted := false
	for _, step := range rates {
		if !inserted && step.FromPeriod >= period {
			out = append(out, domain.RateStep{FromPeriod: period, Rate: rate})
			inserted = true
			if step.FromPeriod == period {
				continue
			}
		}
		out = append(out, step)
	}
	if !inserted {
		out = append(out, domain.RateStep{FromPeriod: period, Rate: rate})
	}
	return out
}

// emit rounds a period for display. Principal and prepayment are shown as
// differences of the rounded running total so that they add up to the
// rounded principal without drift.
func (s *simulation) emit(p int, opening, interest, principal, payment, prepaid, capitalized float64) domain.PeriodRecord {
	before := s.repaidShown
	s.repaid += principal
	regular := toDisplay(s.repaid)
	s.repaid += prepaid
	total := toDisplay(s.repaid)
	s.repaidShown = total

	percent := 0.0
	if s.basis > 0 {
		percent = math.Min(100, math.Max(0, s.repaid/s.basis*100))
	}
	if s.balance == 0 {
		percent = 100
	}

	return domain.PeriodRecord{
		Index:                 p,
		OpeningBalance:        Round(opening),
		InterestAccrued:       Round(interest),
		PrincipalPaid:         regular.Sub(before).InexactFloat64(),
		PaymentMade:           Round(payment),
		Prepayment:            total.Sub(regular).InexactFloat64(),
		Capitalized:           Round(capitalized),
		ClosingBalance:        Round(s.balance),
		CumulativePaidPercent: Round(percent),
	}
}
