package service

import (
	"context"

	"loan-engine/domain"
	"loan-engine/engine"
	"loan-engine/variant"
)

// CalculateTenure solves how many months an EMI takes to repay a loan.
func (s *LoanService) CalculateTenure(ctx context.Context, req domain.TenureRequest) (domain.TenureResponse, error) {
	if err := s.limits.amount("loanAmount", req.LoanAmount); err != nil {
		return domain.TenureResponse{}, err
	}
	if err := s.limits.amount("emi", req.EMI); err != nil {
		return domain.TenureResponse{}, err
	}
	if err := s.limits.rate("interestRate", req.InterestRate); err != nil {
		return domain.TenureResponse{}, err
	}
	if err := fees(req.FeesCharges); err != nil {
		return domain.TenureResponse{}, err
	}
	advance, err := scheme(req.EMIScheme)
	if err != nil {
		return domain.TenureResponse{}, err
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.TenureResponse{}, err
	}

	return calculate(ctx, s, "tenure", req, func() (domain.TenureResponse, error) {
		res, err := s.lib.Tenure(variant.TenureInput{
			Principal:  req.LoanAmount,
			EMI:        req.EMI,
			AnnualRate: req.InterestRate,
			Fees:       req.FeesCharges,
			Advance:    advance,
		}, toVariant(req.Calendar))
		if err != nil {
			return domain.TenureResponse{}, err
		}
		return domain.TenureResponse{
			TenureMonths:          res.Tenure.Periods,
			TenureYears:           res.WholeYears,
			TenureRemainingMonths: res.RemainingMonths,
			LoanAPR:               engine.Round(res.APR.AnnualRate),
			APRApproximate:        res.APR.Approximate,
			LoanAmount:            req.LoanAmount,
			EMI:                   req.EMI,
			FeesCharges:           req.FeesCharges,
			TotalInterest:         res.Summary.TotalInterest,
			TotalPayment:          res.TotalPayment,
			Schedule:              res.Years,
		}, nil
	})
}

// CalculateInterestRate solves the annual rate an EMI implies.
func (s *LoanService) CalculateInterestRate(ctx context.Context, req domain.InterestRateRequest) (domain.InterestRateResponse, error) {
	if err := s.limits.amount("loanAmount", req.LoanAmount); err != nil {
		return domain.InterestRateResponse{}, err
	}
	if err := s.limits.amount("emi", req.EMI); err != nil {
		return domain.InterestRateResponse{}, err
	}
	months, err := s.limits.tenure(req.TenureYears, req.TenureMonths)
	if err != nil {
		return domain.InterestRateResponse{}, err
	}
	if err := fees(req.FeesCharges); err != nil {
		return domain.InterestRateResponse{}, err
	}
	advance, err := scheme(req.EMIScheme)
	if err != nil {
		return domain.InterestRateResponse{}, err
	}

	return calculate(ctx, s, "interest-rate", req, func() (domain.InterestRateResponse, error) {
		res, err := s.lib.InterestRate(variant.RateInput{
			Principal: req.LoanAmount,
			EMI:       req.EMI,
			Months:    months,
			Fees:      req.FeesCharges,
			Advance:   advance,
		})
		if err != nil {
			return domain.InterestRateResponse{}, err
		}
		if !res.Rate.Converged {
			s.logger.Warn("rate solve hit the iteration ceiling")
		}
		return domain.InterestRateResponse{
			InterestRate:   engine.Round(res.AnnualRate),
			APR:            engine.Round(res.APR.AnnualRate),
			APRApproximate: res.APR.Approximate,
			Converged:      res.Rate.Converged,
			Iterations:     res.Rate.Iterations,
			FeesCharges:    req.FeesCharges,
			TotalInterest:  res.TotalInterest,
			TotalPayment:   res.TotalPayment,
		}, nil
	})
}

// CalculateLoanAmount finds the principal an EMI can repay.
func (s *LoanService) CalculateLoanAmount(ctx context.Context, req domain.LoanAmountRequest) (domain.LoanAmountResponse, error) {
	if err := s.limits.amount("emi", req.EMI); err != nil {
		return domain.LoanAmountResponse{}, err
	}
	if err := s.limits.rate("interestRate", req.InterestRate); err != nil {
		return domain.LoanAmountResponse{}, err
	}
	months, err := s.limits.tenure(req.TenureYears, req.TenureMonths)
	if err != nil {
		return domain.LoanAmountResponse{}, err
	}
	if err := fees(req.FeesCharges); err != nil {
		return domain.LoanAmountResponse{}, err
	}
	advance, err := scheme(req.EMIScheme)
	if err != nil {
		return domain.LoanAmountResponse{}, err
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.LoanAmountResponse{}, err
	}

	return calculate(ctx, s, "loan-amount", req, func() (domain.LoanAmountResponse, error) {
		res, err := s.lib.LoanAmount(variant.AmountInput{
			EMI:        req.EMI,
			AnnualRate: req.InterestRate,
			Months:     months,
			Fees:       req.FeesCharges,
			Advance:    advance,
		}, toVariant(req.Calendar))
		if err != nil {
			return domain.LoanAmountResponse{}, err
		}
		return domain.LoanAmountResponse{
			PrincipalAmount: res.Principal,
			LoanAPR:         engine.Round(res.APR.AnnualRate),
			APRApproximate:  res.APR.Approximate,
			EMI:             req.EMI,
			FeesCharges:     req.FeesCharges,
			TotalInterest:   res.Summary.TotalInterest,
			TotalPayment:    res.TotalPayment,
			Schedule:        res.Years,
		}, nil
	})
}
