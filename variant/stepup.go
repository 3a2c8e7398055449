package variant

import (
	"math"

	"loan-engine/domain"
	"loan-engine/engine"
)

// StepUpInput describes an EMI that grows at fixed intervals. A zero
// InitialEMI asks for the one that closes the loan exactly at Months.
type StepUpInput struct {
	Terms
	InitialEMI float64
	Mode       domain.StepMode
	Increment  float64 // amount, or fraction for StepMultiplicative
	Interval   int     // months between steps
}

func (in StepUpInput) policy(initial float64) domain.StepSchedule {
	return domain.StepSchedule{
		InitialAmount: initial,
		Rule:          domain.StepRule{Mode: in.Mode, Increment: in.Increment, Interval: in.Interval},
	}
}

// StepUpResult reports the first EMI and the one in force in the last
// simulated month.
type StepUpResult struct {
	Result
	InitialEMI float64
	FinalEMI   float64
	Solved     bool
}

// StepUp runs a step-up loan. Early EMIs may be below the interest due, in
// which case the balance grows until the steps catch up.
func (Library) StepUp(in StepUpInput, cal Calendar) (StepUpResult, error) {
	initial, solved := in.InitialEMI, false
	if initial == 0 {
		var err error
		if initial, err = initialStepEMI(in); err != nil {
			return StepUpResult{}, err
		}
		solved = true
	}

	policy := in.policy(initial)
	res, err := simulate(in.loan(policy), cal)
	if err != nil {
		return StepUpResult{}, err
	}
	res.EMI = engine.Round(policy.AmountAt(1))
	return StepUpResult{
		Result:     res,
		InitialEMI: res.EMI,
		FinalEMI:   engine.Round(policy.AmountAt(len(res.Periods))),
		Solved:     solved,
	}, nil
}

// initialStepEMI finds the initial EMI whose stepped schedule leaves nothing
// owing after the last month. Each month's EMI is affine in the initial one,
// so the closing balance is too and a single linear solve is exact.
func initialStepEMI(in StepUpInput) (float64, error) {
	if in.Principal <= 0 || in.Months <= 0 {
		return 0, domain.NewInvalidLoanError("principal and tenure must be positive")
	}
	unit, fixed := in.policy(1), in.policy(0)
	r := in.periodicRate()

	// closing balance = principal*(1+r)^n - sum(emi_p * (1+r)^(n-p))
	owed := in.Principal * math.Pow(1+r, float64(in.Months))
	var slope, offset float64
	for p := 1; p <= in.Months; p++ {
		growth := math.Pow(1+r, float64(in.Months-p))
		base := fixed.AmountAt(p)
		slope += (unit.AmountAt(p) - base) * growth
		offset += base * growth
	}
	if slope <= 0 {
		return 0, domain.NewInvalidLoanError("step rule leaves no room for an initial EMI")
	}
	initial := (owed - offset) / slope
	if initial <= 0 {
		return 0, domain.NewInvalidLoanError("step increments alone repay the loan; lower the increment")
	}
	return initial, nil
}
