package variant

import (
	"loan-engine/domain"
	"loan-engine/engine"
)

// Prepayment is a lump sum paid at the end of Month.
type Prepayment struct {
	Month  int
	Amount float64
}

// PartPaymentInput is a standard loan with one or more prepayments, all
// rescheduled the same way.
type PartPaymentInput struct {
	Terms
	Prepayments []Prepayment
	Mode        domain.Reschedule
}

// PartPaymentResult holds the schedule without and with the prepayments.
type PartPaymentResult struct {
	Original        Result
	Revised         Result
	InterestSaved   float64
	TenureReduction int
	// RevisedEMI is the EMI after the last prepayment.
	RevisedEMI float64
}

// PartPayment compares a loan against the same loan with prepayments.
func (l Library) PartPayment(in PartPaymentInput, cal Calendar) (PartPaymentResult, error) {
	if len(in.Prepayments) == 0 {
		return PartPaymentResult{}, domain.NewInvalidLoanError("at least one prepayment is required")
	}
	original, err := l.Standard(in.Terms, false, cal)
	if err != nil {
		return PartPaymentResult{}, err
	}

	loan := in.loan(domain.ComputedAnnuity{})
	last := 0
	for _, pp := range in.Prepayments {
		loan.Events = append(loan.Events, domain.ScheduledEvent{
			Period: pp.Month,
			Event:  domain.PartPrepayment{Amount: pp.Amount, Mode: in.Mode},
		})
		if pp.Month > last {
			last = pp.Month
		}
	}
	revised, err := simulate(loan, cal)
	if err != nil {
		return PartPaymentResult{}, err
	}

	out := PartPaymentResult{
		Original:        original,
		Revised:         revised,
		InterestSaved:   engine.Round(original.Summary.TotalInterest - revised.Summary.TotalInterest),
		TenureReduction: len(original.Periods) - len(revised.Periods),
		RevisedEMI:      revised.EMI,
	}
	if last < len(revised.Periods) {
		out.RevisedEMI = revised.Periods[last].PaymentMade
	}
	return out, nil
}
