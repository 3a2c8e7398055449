package domain

// PaymentPolicy decides the payment of each period. The set of policies is
// closed; the engine switches over it exhaustively.
type PaymentPolicy interface {
	isPaymentPolicy()
}

// FixedAnnuity pays the same amount every period until the balance closes.
type FixedAnnuity struct {
	Amount float64
}

// ComputedAnnuity derives the standard annuity payment from the remaining
// balance, rate and periods, and re-derives it when the loan is reshaped.
type ComputedAnnuity struct{}

// FixedPrincipal repays an equal share of principal every period, with
// interest on the outstanding balance on top.
type FixedPrincipal struct{}

// FlatRate charges interest on the original principal for the whole tenure,
// spread evenly over the periods.
type FlatRate struct {
	AnnualRatePercent float64
	PeriodsPerYear    int
}

// StepMode selects how a StepRule grows the payment.
type StepMode int

const (
	StepAdditive StepMode = iota
	StepMultiplicative
)

// StepRule raises the payment every Interval periods, either by adding
// Increment or by multiplying by (1 + Increment).
type StepRule struct {
	Mode      StepMode
	Increment float64
	Interval  int
}

// StepSchedule starts at InitialAmount and grows by Rule at period boundaries.
type StepSchedule struct {
	InitialAmount float64
	Rule          StepRule
}

// PaymentStage is one explicit stage of a StagedAmounts policy.
type PaymentStage struct {
	FromPeriod int
	Amount     float64
}

// StagedAmounts pays explicitly listed amounts, each from its FromPeriod on.
type StagedAmounts struct {
	Stages []PaymentStage
}

// InterestOnly pays the interest due each period and the whole principal in
// the final period.
type InterestOnly struct{}

func (FixedAnnuity) isPaymentPolicy()    {}
func (ComputedAnnuity) isPaymentPolicy() {}
func (FixedPrincipal) isPaymentPolicy()  {}
func (FlatRate) isPaymentPolicy()        {}
func (StepSchedule) isPaymentPolicy()    {}
func (StagedAmounts) isPaymentPolicy()   {}
func (InterestOnly) isPaymentPolicy()    {}

// AmountAt returns the step payment active in period (1-based).
func (s StepSchedule) AmountAt(period int) float64 {
	if s.Rule.Interval <= 0 || period <= 1 {
		return s.InitialAmount
	}
	steps := (period - 1) / s.Rule.Interval
	amount := s.InitialAmount
	for i := 0; i < steps; i++ {
		switch s.Rule.Mode {
		case StepAdditive:
			amount += s.Rule.Increment
		case StepMultiplicative:
			amount *= 1 + s.Rule.Increment
		}
	}
	return amount
}

// AmountAt returns the staged payment active in period.
func (s StagedAmounts) AmountAt(period int) float64 {
	amount := 0.0
	for _, stage := range s.Stages {
		if stage.FromPeriod > period {
			break
		}
		amount = stage.Amount
	}
	return amount
}
