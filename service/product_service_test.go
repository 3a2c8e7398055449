package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-engine/domain"
	"loan-engine/repository"
)

func terms(amount, rate float64, years int) domain.LoanTerms {
	return domain.LoanTerms{LoanAmount: amount, InterestRate: rate, TenureYears: years}
}

func TestCalculateStepUp(t *testing.T) {
	service := newTestService(&MockCalculationRepository{}, repository.NewMemoryCache())

	result, err := service.CalculateStepUp(context.Background(), domain.StepUpRequest{
		LoanTerms:   terms(1_000_000, 9, 10),
		StepUpType:  domain.StepUpPercentage,
		StepUpValue: 5,
	})
	require.NoError(t, err)

	assert.True(t, result.InitialEMISolved)
	assert.Equal(t, 120, result.TenureMonths)
	assert.Greater(t, result.FinalEMI, result.InitialEMI)

	_, err = service.CalculateStepUp(context.Background(), domain.StepUpRequest{
		LoanTerms:  terms(1_000_000, 9, 10),
		StepUpType: "yearly",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCalculateFlatRate(t *testing.T) {
	service := newTestService(&MockCalculationRepository{}, repository.NewMemoryCache())

	result, err := service.CalculateFlatRate(context.Background(), domain.FlatRateRequest{
		LoanTerms: terms(120_000, 10, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, 6000.0, result.EMI)
	assert.Equal(t, 24_000.0, result.TotalInterest)
	require.NotNil(t, result.EffectiveRate)
	assert.InDelta(t, 18.16, *result.EffectiveRate, 0.01)
	assert.Empty(t, result.EffectiveRateNote)
	assert.True(t, result.EffectiveRateApproximate)
}

func TestCalculateFlatRate_NoComparableRate(t *testing.T) {
	service := newTestService(&MockCalculationRepository{}, repository.NewMemoryCache())

	result, err := service.CalculateFlatRate(context.Background(), domain.FlatRateRequest{
		LoanTerms: terms(100_000, 35, 5),
		Calendar:  domain.Calendar{StartYear: 2025, StartMonth: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 4583.33, result.EMI)
	assert.Nil(t, result.EffectiveRate)
	assert.NotEmpty(t, result.EffectiveRateNote)
	assert.Len(t, result.Schedule, 5)
}

func TestCalculatePhasedRate(t *testing.T) {
	service := newTestService(&MockCalculationRepository{}, repository.NewMemoryCache())

	result, err := service.CalculatePhasedRate(context.Background(), domain.PhasedRateRequest{
		LoanAmount:  500_000,
		TenureYears: 15,
		Phases: []domain.RatePhase{
			{FromMonth: 1, InterestRate: 7},
			{FromMonth: 37, InterestRate: 9.5},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Phases, 2)
	assert.Greater(t, result.Phases[1].EMI, result.Phases[0].EMI)

	_, err = service.CalculatePhasedRate(context.Background(), domain.PhasedRateRequest{
		LoanAmount:  500_000,
		TenureYears: 15,
		Phases: []domain.RatePhase{
			{FromMonth: 1, InterestRate: 7},
			{FromMonth: 1, InterestRate: 9.5},
		},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phases.fromMonth", verr.Field)
}

func TestCalculateMoratorium(t *testing.T) {
	service := newTestService(&MockCalculationRepository{}, repository.NewMemoryCache())

	result, err := service.CalculateMoratorium(context.Background(), domain.MoratoriumRequest{
		LoanTerms:        terms(100_000, 12, 5),
		MoratoriumMonths: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, result.MoratoriumMonths)
	assert.InDelta(t, 12_682.50, result.CapitalizedInterest, 0.01)

	_, err = service.CalculateMoratorium(context.Background(), domain.MoratoriumRequest{
		LoanTerms:        terms(100_000, 12, 5),
		MoratoriumMonths: 12,
		MoratoriumType:   "partial",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCalculateOverdue(t *testing.T) {
	service := newTestService(&MockCalculationRepository{}, repository.NewMemoryCache())

	result, err := service.CalculateOverdue(context.Background(), domain.OverdueRequest{
		LoanTerms:     terms(100_000, 12, 2),
		PaidMonths:    6,
		OverdueMonths: 3,
		PenaltyRate:   24,
	})
	require.NoError(t, err)
	assert.InDelta(t, 14_694.50, result.TotalDue, 0.001)
	assert.Len(t, result.PenaltySchedule, 3)

	_, err = service.CalculateOverdue(context.Background(), domain.OverdueRequest{
		LoanTerms:     terms(100_000, 12, 2),
		PaidMonths:    20,
		OverdueMonths: 6,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCalculatePartPayment(t *testing.T) {
	service := newTestService(&MockCalculationRepository{}, repository.NewMemoryCache())

	result, err := service.CalculatePartPayment(context.Background(), domain.PartPaymentRequest{
		LoanTerms:   terms(2_000_000, 9, 20),
		Prepayments: []domain.PartPaymentEntry{{Month: 60, Amount: 300_000}},
	})
	require.NoError(t, err)
	assert.Equal(t, 240, result.OriginalTenureMonths)
	assert.Less(t, result.RevisedTenureMonths, 240)
	assert.Greater(t, result.InterestSaved, 0.0)

	_, err = service.CalculatePartPayment(context.Background(), domain.PartPaymentRequest{
		LoanTerms:   terms(2_000_000, 9, 20),
		Prepayments: []domain.PartPaymentEntry{{Month: 300, Amount: 300_000}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.CalculatePartPayment(context.Background(), domain.PartPaymentRequest{
		LoanTerms:   terms(2_000_000, 9, 20),
		Prepayments: []domain.PartPaymentEntry{{Month: 60, Amount: 300_000}},
		Reduce:      "reduce_both",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCalculateBullet_SingleMonth(t *testing.T) {
	service := newTestService(&MockCalculationRepository{}, repository.NewMemoryCache())

	bullet, err := service.CalculateBullet(context.Background(), domain.BulletRequest{
		LoanTerms: domain.LoanTerms{LoanAmount: 100_000, InterestRate: 12, TenureMonths: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, bullet.MonthlyInterest)
	assert.Equal(t, 101_000.0, bullet.BalloonPayment)
}

func TestCalculateBulletAndEqualPrincipal(t *testing.T) {
	service := newTestService(&MockCalculationRepository{}, repository.NewMemoryCache())

	bullet, err := service.CalculateBullet(context.Background(), domain.BulletRequest{LoanTerms: terms(250_000, 12, 2)})
	require.NoError(t, err)
	assert.Equal(t, 2500.0, bullet.MonthlyInterest)
	assert.Equal(t, 252_500.0, bullet.BalloonPayment)

	equal, err := service.CalculateEqualPrincipal(context.Background(), domain.EqualPrincipalRequest{LoanTerms: terms(120_000, 12, 1)})
	require.NoError(t, err)
	assert.Equal(t, 11_200.0, equal.FirstEMI)
	assert.Equal(t, 10_100.0, equal.LastEMI)
}
