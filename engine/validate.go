package engine

import (
	"fmt"
	"math"

	"loan-engine/domain"
)

// Validate rejects loans that cannot be simulated. It runs before the first
// period so that a bad loan never yields a partial schedule.
func Validate(loan domain.Loan) error {
	if loan.PeriodCount <= 0 {
		return domain.NewInvalidLoanError("period count must be positive")
	}
	if loan.Principal <= 0 || math.IsNaN(loan.Principal) || math.IsInf(loan.Principal, 0) {
		return domain.NewInvalidLoanError("principal must be positive")
	}
	if err := loan.Rates.Validate(); err != nil {
		return err
	}
	if err := validateEvents(loan); err != nil {
		return err
	}
	return validatePolicy(loan)
}

func validateEvents(loan domain.Loan) error {
	moratoriums := 0
	for _, se := range loan.Events {
		if se.Period < 1 || se.Period > loan.PeriodCount {
			return domain.NewInvalidLoanError(fmt.Sprintf("event period %d is outside 1..%d", se.Period, loan.PeriodCount))
		}
		switch ev := se.Event.(type) {
		case domain.PartPrepayment:
			if ev.Amount <= 0 {
				return domain.NewInvalidLoanError("prepayment amount must be positive")
			}
		case domain.RateTransition:
			if ev.Rate < 0 {
				return domain.NewInvalidLoanError("periodic rate must not be negative")
			}
		case domain.MoratoriumEnd:
			moratoriums++
			if moratoriums > 1 {
				return domain.NewInvalidLoanError("a loan has at most one moratorium")
			}
			if ev.MonthsDeferred < 0 {
				return domain.NewInvalidLoanError("deferred months must not be negative")
			}
		default:
			return domain.NewInvalidLoanError("unknown event")
		}
	}
	return nil
}

func validatePolicy(loan domain.Loan) error {
	switch p := loan.Policy.(type) {
	case domain.FixedAnnuity:
		if p.Amount <= 0 {
			return domain.NewInvalidLoanError("payment must be positive")
		}
		first, balance, ok := firstAmortizingPeriod(loan)
		if !ok {
			return nil
		}
		rate := loan.Rates.RateAt(first)
		interest := balance * rate
		covered := p.Amount
		if loan.Advance {
			covered = p.Amount * (1 + rate)
		}
		if covered <= interest {
			return domain.NewInvalidLoanError(fmt.Sprintf(
				"payment %.2f does not exceed the first period's interest of %.2f, the loan would never amortize",
				p.Amount, interest))
		}
	case domain.ComputedAnnuity, domain.FixedPrincipal, domain.InterestOnly:
	case domain.FlatRate:
		if p.AnnualRatePercent < 0 {
			return domain.NewInvalidLoanError("flat rate must not be negative")
		}
		if p.PeriodsPerYear <= 0 {
			return domain.NewInvalidLoanError("periods per year must be positive")
		}
	case domain.StepSchedule:
		if p.InitialAmount <= 0 {
			return domain.NewInvalidLoanError("initial step payment must be positive")
		}
		if p.Rule.Interval < 0 {
			return domain.NewInvalidLoanError("step interval must not be negative")
		}
		if p.Rule.Mode == domain.StepMultiplicative && p.Rule.Increment <= -1 {
			return domain.NewInvalidLoanError("multiplicative step must keep the payment positive")
		}
	case domain.StagedAmounts:
		if len(p.Stages) == 0 || p.Stages[0].FromPeriod != 1 {
			return domain.NewInvalidLoanError("staged payments must start at period 1")
		}
		for i, stage := range p.Stages {
			if stage.Amount <= 0 {
				return domain.NewInvalidLoanError("staged payment must be positive")
			}
			if i > 0 && stage.FromPeriod <= p.Stages[i-1].FromPeriod {
				return domain.NewInvalidLoanError("payment stages must be strictly increasing")
			}
		}
	case nil:
		return domain.NewInvalidLoanError("payment policy is required")
	default:
		return domain.NewInvalidLoanError("unknown payment policy")
	}
	return nil
}

// firstAmortizingPeriod returns the first period after any moratorium and
// the balance it opens with. ok is false when the whole term is deferred.
func firstAmortizingPeriod(loan domain.Loan) (int, float64, bool) {
	first, balance := 1, loan.Principal
	for _, se := range loan.Events {
		end, isEnd := se.Event.(domain.MoratoriumEnd)
		if !isEnd {
			continue
		}
		first = se.Period + 1
		if !end.ServiceInterest {
			balance *= math.Pow(1+loan.Rates.RateAt(se.Period), float64(end.MonthsDeferred))
		}
	}
	return first, balance, first <= loan.PeriodCount
}
