package variant

import (
	"loan-engine/domain"
	"loan-engine/engine"
)

// OverdueInput is a loan that defaults after PaidMonths installments and
// then misses OverdueMonths of them.
type OverdueInput struct {
	Terms
	PaidMonths        int
	OverdueMonths     int
	PenaltyAnnualRate float64 // percent a year
}

// PenaltyMonth is one month of the penalty track.
type PenaltyMonth struct {
	Month         int
	OverdueAmount float64
	Penalty       float64
	TotalDue      float64
}

// OverdueResult keeps the amortization schedule and the penalty track apart;
// they only meet in TotalDue.
type OverdueResult struct {
	Result
	OutstandingPrincipal float64
	OverdueAmount        float64
	Penalty              float64
	TotalDue             float64
	PenaltyTrack         []PenaltyMonth
}

// Overdue prices a run of missed installments. Each month the missed EMI is
// added to the overdue base, then penalty accrues monthly on base plus the
// penalty so far. The amortization schedule is never altered.
func (l Library) Overdue(in OverdueInput, cal Calendar) (OverdueResult, error) {
	switch {
	case in.PaidMonths < 0 || in.OverdueMonths <= 0:
		return OverdueResult{}, domain.NewInvalidLoanError("paid months must not be negative and overdue months must be positive")
	case in.PaidMonths+in.OverdueMonths > in.Months:
		return OverdueResult{}, domain.NewInvalidLoanError("missed installments run past the end of the tenure")
	case in.PenaltyAnnualRate < 0:
		return OverdueResult{}, domain.NewInvalidLoanError("penalty rate must not be negative")
	}

	res, err := l.Standard(in.Terms, false, cal)
	if err != nil {
		return OverdueResult{}, err
	}

	out := OverdueResult{Result: res, OutstandingPrincipal: in.Principal}
	if in.PaidMonths > 0 {
		out.OutstandingPrincipal = res.Periods[in.PaidMonths-1].ClosingBalance
	}

	monthly := in.PenaltyAnnualRate / 100 / monthsPerYear
	var base, penalty float64
	for i := 0; i < in.OverdueMonths; i++ {
		missed := res.Periods[in.PaidMonths+i]
		base += missed.PaymentMade
		penalty += (base + penalty) * monthly
		out.PenaltyTrack = append(out.PenaltyTrack, PenaltyMonth{
			Month:         missed.Index,
			OverdueAmount: engine.Round(base),
			Penalty:       engine.Round(penalty),
			TotalDue:      engine.Round(base + penalty),
		})
	}
	out.OverdueAmount = engine.Round(base)
	out.Penalty = engine.Round(penalty)
	out.TotalDue = engine.Round(base + penalty)
	return out, nil
}
