package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-engine/domain"
	"loan-engine/solver"
)

func standardLoan(principal, annualRate float64, months int) domain.Loan {
	return domain.Loan{
		Principal:   principal,
		Rates:       domain.ConstantRate(annualRate / 12),
		Policy:      domain.ComputedAnnuity{},
		PeriodCount: months,
	}
}

func totalPrincipal(records []domain.PeriodRecord) float64 {
	sum := 0.0
	for _, r := range records {
		sum += r.PrincipalPaid + r.Prepayment
	}
	return sum
}

func TestSimulate_StandardEMI(t *testing.T) {
	records, err := Simulate(standardLoan(1_000_000, 0.12, 180))
	require.NoError(t, err)
	require.Len(t, records, 180)

	assert.InDelta(t, 12001.68, records[0].PaymentMade, 0.01)
	assert.InDelta(t, 10000.00, records[0].InterestAccrued, 0.01)
	assert.Equal(t, 0.0, records[179].ClosingBalance)
	assert.Equal(t, 100.0, records[179].CumulativePaidPercent)

	for i, r := range records {
		assert.GreaterOrEqual(t, r.ClosingBalance, 0.0, "period %d", r.Index)
		if i > 0 {
			assert.LessOrEqual(t, r.ClosingBalance, records[i-1].ClosingBalance, "period %d", r.Index)
		}
	}

	summary := Summarize(records)
	assert.InDelta(t, 1_160_302, summary.TotalInterest, 1.0)
	assert.InDelta(t, 1_000_000, totalPrincipal(records), 0.01)
}

func TestSimulate_RecordsChainWithoutDrift(t *testing.T) {
	records, err := Simulate(standardLoan(2_500_000, 0.0875, 300))
	require.NoError(t, err)

	for i := 1; i < len(records); i++ {
		assert.Equal(t, records[i-1].ClosingBalance, records[i].OpeningBalance, "period %d", records[i].Index)
	}
	assert.InDelta(t, 2_500_000, totalPrincipal(records), 0.005)
}

func TestSimulate_ZeroRate(t *testing.T) {
	records, err := Simulate(standardLoan(1200, 0, 12))
	require.NoError(t, err)
	require.Len(t, records, 12)

	for _, r := range records {
		assert.Equal(t, 100.0, r.PaymentMade)
		assert.Equal(t, 0.0, r.InterestAccrued)
	}
}

func TestSimulate_InvalidLoans(t *testing.T) {
	cases := map[string]domain.Loan{
		"zero principal":   standardLoan(0, 0.12, 12),
		"zero periods":     standardLoan(1000, 0.12, 0),
		"negative rate":    standardLoan(1000, -0.12, 12),
		"missing policy":   {Principal: 1000, Rates: domain.ConstantRate(0.01), PeriodCount: 12},
		"payment too low":  {Principal: 1_000_000, Rates: domain.ConstantRate(0.01), Policy: domain.FixedAnnuity{Amount: 9000}, PeriodCount: 360},
		"payment is zero":  {Principal: 1000, Rates: domain.ConstantRate(0.01), Policy: domain.FixedAnnuity{}, PeriodCount: 12},
		"event outside":    {Principal: 1000, Rates: domain.ConstantRate(0.01), Policy: domain.ComputedAnnuity{}, PeriodCount: 12, Events: []domain.ScheduledEvent{{Period: 13, Event: domain.RateTransition{Rate: 0.02}}}},
		"empty stages":     {Principal: 1000, Rates: domain.ConstantRate(0.01), Policy: domain.StagedAmounts{}, PeriodCount: 12},
		"unordered steps":  {Principal: 1000, Rates: domain.RateSchedule{{FromPeriod: 1, Rate: 0.01}, {FromPeriod: 1, Rate: 0.02}}, Policy: domain.ComputedAnnuity{}, PeriodCount: 12},
		"zero prepayment":  {Principal: 1000, Rates: domain.ConstantRate(0.01), Policy: domain.ComputedAnnuity{}, PeriodCount: 12, Events: []domain.ScheduledEvent{{Period: 2, Event: domain.PartPrepayment{}}}},
		"flat without ppy": {Principal: 1000, Rates: domain.ConstantRate(0), Policy: domain.FlatRate{AnnualRatePercent: 10}, PeriodCount: 12},
	}

	for name, loan := range cases {
		t.Run(name, func(t *testing.T) {
			records, err := Simulate(loan)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidLoan)
			var invalid *domain.InvalidLoanError
			assert.ErrorAs(t, err, &invalid)
			assert.NotEmpty(t, invalid.Reason)
			assert.Nil(t, records)
		})
	}
}

func TestSimulate_FixedAnnuityClosesEarly(t *testing.T) {
	loan := domain.Loan{
		Principal:   100_000,
		Rates:       domain.ConstantRate(0.01),
		Policy:      domain.FixedAnnuity{Amount: 5000},
		PeriodCount: 120,
	}
	records, err := Simulate(loan)
	require.NoError(t, err)

	want := solver.WholePeriods(mustExactTenure(t, 100_000, 5000, 0.01))
	require.Len(t, records, want)

	last := records[len(records)-1]
	assert.Equal(t, 0.0, last.ClosingBalance)
	assert.Less(t, last.PaymentMade, 5000.0)
	assert.InDelta(t, last.OpeningBalance+last.InterestAccrued, last.PaymentMade, 0.01)
}

func mustExactTenure(t *testing.T, principal, payment, rate float64) float64 {
	t.Helper()
	exact, err := solver.ExactTenure(principal, payment, rate, false)
	require.NoError(t, err)
	return exact
}

func TestSimulate_NegativeAmortization(t *testing.T) {
	loan := domain.Loan{
		Principal: 500_000,
		Rates:     domain.ConstantRate(0.10 / 12),
		Policy: domain.StepSchedule{
			InitialAmount: 3000,
			Rule:          domain.StepRule{Mode: domain.StepAdditive, Increment: 1500, Interval: 12},
		},
		PeriodCount: 240,
	}
	records, err := Simulate(loan)
	require.NoError(t, err)

	first := records[0]
	assert.Equal(t, 0.0, first.PrincipalPaid)
	assert.Equal(t, 3000.0, first.PaymentMade)
	assert.InDelta(t, 4166.67, first.InterestAccrued, 0.01)
	assert.InDelta(t, 501_166.67, first.ClosingBalance, 0.01)
	assert.Greater(t, first.ClosingBalance, first.OpeningBalance)

	assert.Equal(t, 4500.0, records[12].PaymentMade)
	assert.Equal(t, 0.0, records[len(records)-1].ClosingBalance)
}

func TestSimulate_PartPrepaymentReduceTenure(t *testing.T) {
	base := standardLoan(2_000_000, 0.09, 240)
	original, err := Simulate(base)
	require.NoError(t, err)

	revisedLoan := base
	revisedLoan.Events = []domain.ScheduledEvent{
		{Period: 60, Event: domain.PartPrepayment{Amount: 300_000, Mode: domain.ReduceTenure}},
	}
	revised, err := Simulate(revisedLoan)
	require.NoError(t, err)

	assert.Less(t, len(revised), 240)
	assert.Less(t, Summarize(revised).TotalInterest, Summarize(original).TotalInterest)
	assert.InDelta(t, 300_000, revised[59].Prepayment, 0.01)
	assert.Equal(t, original[60].PaymentMade, revised[60].PaymentMade)
	assert.Equal(t, 0.0, revised[len(revised)-1].ClosingBalance)
	assert.InDelta(t, 2_000_000, totalPrincipal(revised), 0.01)
}

func TestSimulate_PartPrepaymentReduceAnnuity(t *testing.T) {
	loan := standardLoan(2_000_000, 0.09, 240)
	loan.Events = []domain.ScheduledEvent{
		{Period: 60, Event: domain.PartPrepayment{Amount: 300_000, Mode: domain.ReduceAnnuity}},
	}
	records, err := Simulate(loan)
	require.NoError(t, err)

	require.Len(t, records, 240)
	assert.Less(t, records[60].PaymentMade, records[58].PaymentMade)
	assert.Equal(t, 0.0, records[239].ClosingBalance)
	assert.InDelta(t, 2_000_000, totalPrincipal(records), 0.01)
}

func TestSimulate_PrepaymentLargerThanBalance(t *testing.T) {
	loan := standardLoan(100_000, 0.12, 24)
	loan.Events = []domain.ScheduledEvent{
		{Period: 3, Event: domain.PartPrepayment{Amount: 1_000_000, Mode: domain.ReduceTenure}},
	}
	records, err := Simulate(loan)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, 0.0, records[2].ClosingBalance)
	assert.InDelta(t, 100_000, totalPrincipal(records), 0.01)
}

func TestSimulate_RateTransition(t *testing.T) {
	loan := standardLoan(1_000_000, 0.08, 120)
	loan.Events = []domain.ScheduledEvent{
		{Period: 24, Event: domain.RateTransition{Rate: 0.10 / 12}},
	}
	records, err := Simulate(loan)
	require.NoError(t, err)

	require.Len(t, records, 120)
	assert.Equal(t, records[0].PaymentMade, records[23].PaymentMade)
	assert.Greater(t, records[24].PaymentMade, records[23].PaymentMade)
	assert.Equal(t, 0.0, records[119].ClosingBalance)
	assert.InDelta(t, 1_000_000, totalPrincipal(records), 0.01)
}

func TestSimulate_PhasedSchedule(t *testing.T) {
	loan := domain.Loan{
		Principal: 500_000,
		Rates: domain.RateSchedule{
			{FromPeriod: 1, Rate: 0.07 / 12},
			{FromPeriod: 37, Rate: 0.095 / 12},
		},
		Policy:      domain.ComputedAnnuity{},
		PeriodCount: 180,
	}
	records, err := Simulate(loan)
	require.NoError(t, err)

	require.Len(t, records, 180)
	assert.Greater(t, records[36].PaymentMade, records[35].PaymentMade)
	assert.Equal(t, 0.0, records[179].ClosingBalance)
}

func TestSimulate_MoratoriumCapitalizes(t *testing.T) {
	loan := standardLoan(100_000, 0.12, 60)
	loan.Events = []domain.ScheduledEvent{
		{Period: 12, Event: domain.MoratoriumEnd{MonthsDeferred: 12}},
	}
	records, err := Simulate(loan)
	require.NoError(t, err)
	require.Len(t, records, 60)

	for _, r := range records[:12] {
		assert.Equal(t, 0.0, r.PaymentMade)
	}
	capitalized := 100_000 * (math.Pow(1.01, 12) - 1)
	assert.InDelta(t, capitalized, records[11].Capitalized, 0.01)
	assert.InDelta(t, 100_000+capitalized, records[11].ClosingBalance, 0.01)
	assert.InDelta(t, solver.AnnuityPayment(100_000+capitalized, 0.01, 48), records[12].PaymentMade, 0.01)
	assert.Equal(t, 0.0, records[59].ClosingBalance)
	assert.InDelta(t, 100_000+capitalized, totalPrincipal(records), 0.01)
}

func TestSimulate_MoratoriumServicingInterest(t *testing.T) {
	loan := standardLoan(100_000, 0.12, 60)
	loan.Events = []domain.ScheduledEvent{
		{Period: 12, Event: domain.MoratoriumEnd{MonthsDeferred: 12, ServiceInterest: true}},
	}
	records, err := Simulate(loan)
	require.NoError(t, err)

	for _, r := range records[:12] {
		assert.Equal(t, 1000.0, r.PaymentMade)
		assert.Equal(t, 100_000.0, r.ClosingBalance)
	}
	assert.Equal(t, 0.0, records[11].Capitalized)
	assert.InDelta(t, solver.AnnuityPayment(100_000, 0.01, 48), records[12].PaymentMade, 0.01)
}

func TestSimulate_InterestOnly(t *testing.T) {
	loan := domain.Loan{
		Principal:   250_000,
		Rates:       domain.ConstantRate(0.01),
		Policy:      domain.InterestOnly{},
		PeriodCount: 24,
	}
	records, err := Simulate(loan)
	require.NoError(t, err)
	require.Len(t, records, 24)

	for _, r := range records[:23] {
		assert.Equal(t, 2500.0, r.PaymentMade)
		assert.Equal(t, 0.0, r.PrincipalPaid)
	}
	assert.Equal(t, 252_500.0, records[23].PaymentMade)
	assert.Equal(t, 0.0, records[23].ClosingBalance)
}

func TestSimulate_FixedPrincipal(t *testing.T) {
	loan := domain.Loan{
		Principal:   120_000,
		Rates:       domain.ConstantRate(0.01),
		Policy:      domain.FixedPrincipal{},
		PeriodCount: 12,
	}
	records, err := Simulate(loan)
	require.NoError(t, err)
	require.Len(t, records, 12)

	assert.Equal(t, 10_000.0, records[0].PrincipalPaid)
	assert.Equal(t, 11_200.0, records[0].PaymentMade)
	assert.Equal(t, 10_100.0, records[11].PaymentMade)
}

func TestSimulate_FlatRate(t *testing.T) {
	loan := domain.Loan{
		Principal:   120_000,
		Rates:       domain.ConstantRate(0),
		Policy:      domain.FlatRate{AnnualRatePercent: 10, PeriodsPerYear: 12},
		PeriodCount: 24,
	}
	records, err := Simulate(loan)
	require.NoError(t, err)
	require.Len(t, records, 24)

	for _, r := range records {
		assert.Equal(t, 1000.0, r.InterestAccrued)
		assert.Equal(t, 6000.0, r.PaymentMade)
	}
	assert.InDelta(t, 24_000, Summarize(records).TotalInterest, 0.001)
}

func TestSimulate_Advance(t *testing.T) {
	loan := standardLoan(500_000, 0.12, 36)
	loan.Advance = true
	records, err := Simulate(loan)
	require.NoError(t, err)
	require.Len(t, records, 36)

	emi := solver.AdvanceAnnuityPayment(500_000, 0.01, 36)
	assert.InDelta(t, emi, records[0].PaymentMade, 0.01)
	assert.InDelta(t, (500_000-emi)*0.01, records[0].InterestAccrued, 0.01)
	assert.Equal(t, 0.0, records[35].InterestAccrued)
	assert.Equal(t, 0.0, records[35].ClosingBalance)
}

func TestSimulate_StagedAmounts(t *testing.T) {
	loan := domain.Loan{
		Principal: 100_000,
		Rates:     domain.ConstantRate(0.01),
		Policy: domain.StagedAmounts{Stages: []domain.PaymentStage{
			{FromPeriod: 1, Amount: 1500},
			{FromPeriod: 13, Amount: 3000},
		}},
		PeriodCount: 60,
	}
	records, err := Simulate(loan)
	require.NoError(t, err)

	assert.Equal(t, 1500.0, records[11].PaymentMade)
	assert.Equal(t, 3000.0, records[12].PaymentMade)
	assert.Equal(t, 0.0, records[len(records)-1].ClosingBalance)
}
