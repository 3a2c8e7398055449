package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"loan-engine/domain"
	"loan-engine/engine"
	"loan-engine/variant"
)

// ErrNoEligibleTerm means every term in the range needs a higher EMI than
// the borrower allows.
var ErrNoEligibleTerm = errors.New("no term in the range fits the maximum monthly payment")

type TermRecommendationService struct {
	loanService *LoanService
}

func NewTermRecommendationService(loanService *LoanService) *TermRecommendationService {
	return &TermRecommendationService{loanService: loanService}
}

// RecommendTerm simulates every term in the range and ranks the ones whose
// EMI fits under the maximum monthly payment.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	limits := s.loanService.limits

	// Validation
	if err := limits.amount("loanAmount", input.LoanAmount); err != nil {
		return domain.TermRecommendationResult{}, err
	}
	if err := limits.rate("interestRate", input.InterestRate); err != nil {
		return domain.TermRecommendationResult{}, err
	}
	if input.MinTermMonths <= 0 || input.MaxTermMonths <= 0 {
		return domain.TermRecommendationResult{}, invalid("minTermMonths", "terms must be positive")
	}
	if input.MinTermMonths > input.MaxTermMonths {
		return domain.TermRecommendationResult{}, invalid("minTermMonths", "must not exceed maxTermMonths")
	}
	if input.MaxTermMonths > limits.MaxTenureMonths {
		return domain.TermRecommendationResult{}, invalid("maxTermMonths", "exceeds the limit of %d months", limits.MaxTenureMonths)
	}
	// Bound the range so a request cannot ask for too many simulations
	if input.MaxTermMonths-input.MinTermMonths > MaxTermRangeMonths {
		return domain.TermRecommendationResult{}, invalid("maxTermMonths", "range exceeds %d months", MaxTermRangeMonths)
	}
	if input.MaxMonthlyPayment <= 0 {
		return domain.TermRecommendationResult{}, invalid("maxMonthlyPayment", "must be positive")
	}
	switch input.Preference {
	case domain.PreferenceMinimizeInterest, domain.PreferenceMinimizePayment, domain.PreferenceBalanced:
	default:
		return domain.TermRecommendationResult{}, invalid("preference", "unknown preference %q", input.Preference)
	}

	return calculate(ctx, s.loanService, "recommend-term", input, func() (domain.TermRecommendationResult, error) {
		return s.rank(input)
	})
}

func (s *TermRecommendationService) rank(input domain.TermRecommendationInput) (domain.TermRecommendationResult, error) {
	recommendations := []domain.TermRecommendation{}
	cal := variant.Calendar{StartYear: 1, StartMonth: 1}

	// Simulate every term
	for term := input.MinTermMonths; term <= input.MaxTermMonths; term++ {
		terms := variant.Terms{Principal: input.LoanAmount, AnnualRate: input.InterestRate, Months: term}
		res, err := s.loanService.lib.Standard(terms, false, cal)
		if err != nil {
			s.loanService.logger.Warn("skipping term",
				zap.String("op", "service.RecommendTerm"),
				zap.Int("term", term),
				zap.Error(err),
			)
			continue
		}

		// Keep terms under the maximum monthly payment
		if res.EMI > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths:     term,
			MonthlyPayment: res.EMI,
			TotalInterest:  res.Summary.TotalInterest,
			Score:          calculateScore(res.EMI, res.Summary.TotalInterest, input, term),
			Reason:         generateReason(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, ErrNoEligibleTerm
	}

	// Highest score first; ties go to the shorter term
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	best := recommendations[0]
	best.Reason = fmt.Sprintf("%s: EMI %.2f over %d months, total interest %.2f",
		best.Reason, best.MonthlyPayment, best.TermMonths, best.TotalInterest)
	recommendations[0] = best

	return domain.TermRecommendationResult{
		RecommendedTerm: best.TermMonths,
		Recommendations: recommendations,
	}, nil
}

// calculateScore scores a term from 0 to 10, weighting interest, EMI and
// term length by preference.
func calculateScore(emi, totalInterest float64, input domain.TermRecommendationInput, term int) float64 {
	// Normalize to a 0-10 scale
	maxPossibleInterest := input.LoanAmount * (input.InterestRate / 100) * float64(input.MaxTermMonths) / 12
	minPossibleInterest := input.LoanAmount * (input.InterestRate / 100) * float64(input.MinTermMonths) / 12

	interestRange := maxPossibleInterest - minPossibleInterest
	lowestPayment := input.LoanAmount / float64(input.MaxTermMonths)
	paymentRange := input.MaxMonthlyPayment - lowestPayment

	interestScore := 0.0
	paymentScore := 0.0
	termScore := 10.0

	if interestRange > 0 {
		interestScore = 10.0 * (1.0 - (totalInterest-minPossibleInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10.0 * (1.0 - (emi-lowestPayment)/paymentRange)
	}
	if span := input.MaxTermMonths - input.MinTermMonths; span > 0 {
		termScore = 10.0 * (1.0 - float64(term-input.MinTermMonths)/float64(span))
	}

	var score float64
	switch input.Preference {
	case domain.PreferenceMinimizeInterest:
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case domain.PreferenceMinimizePayment:
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	case domain.PreferenceBalanced:
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}
	return engine.Round(score)
}

func generateReason(preference string) string {
	switch preference {
	case domain.PreferenceMinimizeInterest:
		return "Term chosen to minimize total interest"
	case domain.PreferenceMinimizePayment:
		return "Term chosen to minimize the monthly payment"
	case domain.PreferenceBalanced:
		return "Balance between monthly payment and total cost"
	}
	return "Recommendation based on the given parameters"
}
