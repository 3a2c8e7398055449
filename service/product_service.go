package service

import (
	"context"

	"go.uber.org/zap"

	"loan-engine/domain"
	"loan-engine/engine"
	"loan-engine/variant"
)

// CalculateStepUp runs a step-up loan. A zero initialEmi is solved so the
// loan closes exactly at the tenure.
func (s *LoanService) CalculateStepUp(ctx context.Context, req domain.StepUpRequest) (domain.StepUpResponse, error) {
	terms, err := s.limits.terms(req.LoanTerms)
	if err != nil {
		return domain.StepUpResponse{}, err
	}
	if req.InitialEMI < 0 {
		return domain.StepUpResponse{}, invalid("initialEmi", "must not be negative")
	}
	in := variant.StepUpInput{Terms: terms, InitialEMI: req.InitialEMI, Interval: req.StepUpFrequency}
	switch req.StepUpType {
	case domain.StepUpAmount:
		in.Mode, in.Increment = domain.StepAdditive, req.StepUpValue
	case domain.StepUpPercentage:
		if req.StepUpValue <= -100 {
			return domain.StepUpResponse{}, invalid("stepUpValue", "must be above -100%%")
		}
		in.Mode, in.Increment = domain.StepMultiplicative, req.StepUpValue/100
	default:
		return domain.StepUpResponse{}, invalid("stepUpType", "must be %q or %q", domain.StepUpAmount, domain.StepUpPercentage)
	}
	if in.Interval == 0 {
		in.Interval = DefaultStepFreq
		req.StepUpFrequency = DefaultStepFreq
	}
	if in.Interval < 0 {
		return domain.StepUpResponse{}, invalid("stepUpFrequencyMonths", "must be positive")
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.StepUpResponse{}, err
	}

	return calculate(ctx, s, "step-up", req, func() (domain.StepUpResponse, error) {
		res, err := s.lib.StepUp(in, toVariant(req.Calendar))
		if err != nil {
			return domain.StepUpResponse{}, err
		}
		return domain.StepUpResponse{
			InitialEMI:       res.InitialEMI,
			InitialEMISolved: res.Solved,
			FinalEMI:         res.FinalEMI,
			TenureMonths:     len(res.Periods),
			TotalInterest:    res.Summary.TotalInterest,
			TotalAmount:      res.Summary.TotalPayment,
			Schedule:         res.Years,
		}, nil
	})
}

// CalculateFlatRate runs a flat-rate loan and its equivalent reducing rate.
func (s *LoanService) CalculateFlatRate(ctx context.Context, req domain.FlatRateRequest) (domain.FlatRateResponse, error) {
	terms, err := s.limits.terms(req.LoanTerms)
	if err != nil {
		return domain.FlatRateResponse{}, err
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.FlatRateResponse{}, err
	}

	return calculate(ctx, s, "flat-rate", req, func() (domain.FlatRateResponse, error) {
		res, err := s.lib.FlatRate(terms, toVariant(req.Calendar))
		if err != nil {
			return domain.FlatRateResponse{}, err
		}
		out := domain.FlatRateResponse{
			EMI:                      res.EMI,
			TotalInterest:            res.Summary.TotalInterest,
			TotalAmount:              res.Summary.TotalPayment,
			EffectiveRateNote:        res.Unavailable,
			EffectiveRateApproximate: res.Approximate,
			Schedule:                 res.Years,
		}
		if res.Unavailable == "" {
			rate := engine.Round(res.EquivalentAnnualRate)
			out.EffectiveRate = &rate
		} else {
			s.logger.Warn("equivalent reducing rate unavailable",
				zap.String("op", "service.CalculateFlatRate"), zap.String("reason", res.Unavailable))
		}
		return out, nil
	})
}

// CalculatePhasedRate runs a loan whose rate changes at fixed months.
func (s *LoanService) CalculatePhasedRate(ctx context.Context, req domain.PhasedRateRequest) (domain.PhasedRateResponse, error) {
	if err := s.limits.amount("loanAmount", req.LoanAmount); err != nil {
		return domain.PhasedRateResponse{}, err
	}
	months, err := s.limits.tenure(req.TenureYears, req.TenureMonths)
	if err != nil {
		return domain.PhasedRateResponse{}, err
	}
	if len(req.Phases) == 0 || len(req.Phases) > MaxRatePhases {
		return domain.PhasedRateResponse{}, invalid("phases", "between 1 and %d phases are required", MaxRatePhases)
	}
	phases := make([]variant.Phase, len(req.Phases))
	for i, ph := range req.Phases {
		if err := s.limits.rate("phases.interestRate", ph.InterestRate); err != nil {
			return domain.PhasedRateResponse{}, err
		}
		if i == 0 && ph.FromMonth != 1 {
			return domain.PhasedRateResponse{}, invalid("phases.fromMonth", "the first phase must start in month 1")
		}
		if i > 0 && ph.FromMonth <= req.Phases[i-1].FromMonth {
			return domain.PhasedRateResponse{}, invalid("phases.fromMonth", "phases must be in increasing month order")
		}
		phases[i] = variant.Phase{FromMonth: ph.FromMonth, AnnualRate: ph.InterestRate}
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.PhasedRateResponse{}, err
	}

	return calculate(ctx, s, "phased-rate", req, func() (domain.PhasedRateResponse, error) {
		res, err := s.lib.PhasedRate(req.LoanAmount, months, phases, toVariant(req.Calendar))
		if err != nil {
			return domain.PhasedRateResponse{}, err
		}
		out := domain.PhasedRateResponse{
			TotalInterest: res.Summary.TotalInterest,
			TotalAmount:   res.Summary.TotalPayment,
			Schedule:      res.Years,
		}
		for _, ph := range res.Phases {
			out.Phases = append(out.Phases, domain.RatePhase{
				FromMonth:    ph.FromMonth,
				InterestRate: ph.AnnualRate,
				EMI:          ph.EMI,
			})
		}
		return out, nil
	})
}

// CalculateMoratorium runs an education-style loan with a deferral window.
func (s *LoanService) CalculateMoratorium(ctx context.Context, req domain.MoratoriumRequest) (domain.MoratoriumResponse, error) {
	terms, err := s.limits.terms(req.LoanTerms)
	if err != nil {
		return domain.MoratoriumResponse{}, err
	}
	if req.MoratoriumMonths < 0 {
		return domain.MoratoriumResponse{}, invalid("moratoriumMonths", "must not be negative")
	}
	if req.MoratoriumType == "" {
		req.MoratoriumType = variant.MoratoriumFull.String()
	}
	mode, err := variant.ParseMoratoriumMode(req.MoratoriumType)
	if err != nil {
		return domain.MoratoriumResponse{}, invalid("moratoriumType", "%v", err)
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.MoratoriumResponse{}, err
	}

	return calculate(ctx, s, "moratorium", req, func() (domain.MoratoriumResponse, error) {
		res, err := s.lib.Moratorium(variant.MoratoriumInput{
			Terms:            terms,
			MoratoriumMonths: req.MoratoriumMonths,
			Mode:             mode,
		}, toVariant(req.Calendar))
		if err != nil {
			return domain.MoratoriumResponse{}, err
		}
		return domain.MoratoriumResponse{
			EMI:                 res.EMI,
			MoratoriumMonths:    res.DeferredMonths,
			CapitalizedInterest: engine.Round(res.CapitalizedInterest),
			MoratoriumInterest:  engine.Round(res.InterestDuringWindow),
			BalloonDue:          res.BalloonDue,
			TotalInterest:       res.Summary.TotalInterest,
			TotalAmount:         res.Summary.TotalPayment,
			Schedule:            res.Years,
		}, nil
	})
}

// CalculateOverdue prices missed installments on a separate penalty track.
func (s *LoanService) CalculateOverdue(ctx context.Context, req domain.OverdueRequest) (domain.OverdueResponse, error) {
	terms, err := s.limits.terms(req.LoanTerms)
	if err != nil {
		return domain.OverdueResponse{}, err
	}
	switch {
	case req.PaidMonths < 0:
		return domain.OverdueResponse{}, invalid("paidMonths", "must not be negative")
	case req.OverdueMonths <= 0:
		return domain.OverdueResponse{}, invalid("overdueMonths", "must be positive")
	case req.PaidMonths+req.OverdueMonths > terms.Months:
		return domain.OverdueResponse{}, invalid("overdueMonths", "paid and overdue months exceed the tenure of %d months", terms.Months)
	case req.PenaltyRate < 0 || req.PenaltyRate > MaxPenaltyRate:
		return domain.OverdueResponse{}, invalid("penaltyRate", "must be between 0 and %.0f", MaxPenaltyRate)
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.OverdueResponse{}, err
	}

	return calculate(ctx, s, "overdue", req, func() (domain.OverdueResponse, error) {
		res, err := s.lib.Overdue(variant.OverdueInput{
			Terms:             terms,
			PaidMonths:        req.PaidMonths,
			OverdueMonths:     req.OverdueMonths,
			PenaltyAnnualRate: req.PenaltyRate,
		}, toVariant(req.Calendar))
		if err != nil {
			return domain.OverdueResponse{}, err
		}
		out := domain.OverdueResponse{
			EMI:                  res.EMI,
			OutstandingPrincipal: res.OutstandingPrincipal,
			OverdueAmount:        res.OverdueAmount,
			PenaltyAmount:        res.Penalty,
			TotalDue:             res.TotalDue,
			Schedule:             res.Years,
		}
		for _, m := range res.PenaltyTrack {
			out.PenaltySchedule = append(out.PenaltySchedule, domain.PenaltyMonth(m))
		}
		return out, nil
	})
}

// CalculatePartPayment compares a loan with and without prepayments.
func (s *LoanService) CalculatePartPayment(ctx context.Context, req domain.PartPaymentRequest) (domain.PartPaymentResponse, error) {
	terms, err := s.limits.terms(req.LoanTerms)
	if err != nil {
		return domain.PartPaymentResponse{}, err
	}
	if len(req.Prepayments) == 0 || len(req.Prepayments) > MaxPrepayments {
		return domain.PartPaymentResponse{}, invalid("prepayments", "between 1 and %d prepayments are required", MaxPrepayments)
	}
	prepayments := make([]variant.Prepayment, len(req.Prepayments))
	for i, pp := range req.Prepayments {
		if pp.Month < 1 || pp.Month > terms.Months {
			return domain.PartPaymentResponse{}, invalid("prepayments.month", "must be between 1 and %d", terms.Months)
		}
		if err := s.limits.amount("prepayments.amount", pp.Amount); err != nil {
			return domain.PartPaymentResponse{}, err
		}
		prepayments[i] = variant.Prepayment{Month: pp.Month, Amount: pp.Amount}
	}
	if req.Reduce == "" {
		req.Reduce = domain.ReduceTenure.String()
	}
	mode, err := domain.ParseReschedule(req.Reduce)
	if err != nil {
		return domain.PartPaymentResponse{}, invalid("reduce", "%v", err)
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.PartPaymentResponse{}, err
	}

	return calculate(ctx, s, "part-payment", req, func() (domain.PartPaymentResponse, error) {
		res, err := s.lib.PartPayment(variant.PartPaymentInput{
			Terms:       terms,
			Prepayments: prepayments,
			Mode:        mode,
		}, toVariant(req.Calendar))
		if err != nil {
			return domain.PartPaymentResponse{}, err
		}
		return domain.PartPaymentResponse{
			OriginalEMI:           res.Original.EMI,
			RevisedEMI:            res.RevisedEMI,
			OriginalTenureMonths:  len(res.Original.Periods),
			RevisedTenureMonths:   len(res.Revised.Periods),
			TenureReduction:       res.TenureReduction,
			OriginalTotalInterest: res.Original.Summary.TotalInterest,
			RevisedTotalInterest:  res.Revised.Summary.TotalInterest,
			InterestSaved:         res.InterestSaved,
			OriginalSchedule:      res.Original.Years,
			RevisedSchedule:       res.Revised.Years,
		}, nil
	})
}

// CalculateBullet runs an interest-only loan with the principal due at the
// end.
func (s *LoanService) CalculateBullet(ctx context.Context, req domain.BulletRequest) (domain.BulletResponse, error) {
	terms, err := s.limits.terms(req.LoanTerms)
	if err != nil {
		return domain.BulletResponse{}, err
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.BulletResponse{}, err
	}

	return calculate(ctx, s, "bullet", req, func() (domain.BulletResponse, error) {
		res, err := s.lib.Bullet(terms, toVariant(req.Calendar))
		if err != nil {
			return domain.BulletResponse{}, err
		}
		return domain.BulletResponse{
			MonthlyInterest: res.Periods[0].InterestAccrued,
			BalloonPayment:  res.Balloon,
			TotalInterest:   res.Summary.TotalInterest,
			TotalAmount:     res.Summary.TotalPayment,
			Schedule:        res.Years,
		}, nil
	})
}

// CalculateEqualPrincipal runs a loan repaying the same principal monthly.
func (s *LoanService) CalculateEqualPrincipal(ctx context.Context, req domain.EqualPrincipalRequest) (domain.EqualPrincipalResponse, error) {
	terms, err := s.limits.terms(req.LoanTerms)
	if err != nil {
		return domain.EqualPrincipalResponse{}, err
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.EqualPrincipalResponse{}, err
	}

	return calculate(ctx, s, "equal-principal", req, func() (domain.EqualPrincipalResponse, error) {
		res, err := s.lib.EqualPrincipal(terms, toVariant(req.Calendar))
		if err != nil {
			return domain.EqualPrincipalResponse{}, err
		}
		return domain.EqualPrincipalResponse{
			FirstEMI:      res.Summary.FirstPayment,
			LastEMI:       res.Summary.LastPayment,
			TotalInterest: res.Summary.TotalInterest,
			TotalAmount:   res.Summary.TotalPayment,
			Schedule:      res.Years,
		}, nil
	})
}
