package engine

import (
	"github.com/shopspring/decimal"

	"loan-engine/domain"
)

// Summarize totals a schedule. Capitalized interest counts as interest and
// prepayments count as both principal and payment.
func Summarize(periods []domain.PeriodRecord) domain.Summary {
	if len(periods) == 0 {
		return domain.Summary{}
	}

	var principal, interest, payment decimal.Decimal
	for _, r := range periods {
		prepaid := decimal.NewFromFloat(r.Prepayment)
		principal = principal.Add(decimal.NewFromFloat(r.PrincipalPaid)).Add(prepaid)
		interest = interest.Add(decimal.NewFromFloat(r.InterestAccrued)).Add(decimal.NewFromFloat(r.Capitalized))
		payment = payment.Add(decimal.NewFromFloat(r.PaymentMade)).Add(prepaid)
	}

	last := periods[len(periods)-1]
	return domain.Summary{
		Periods:        len(periods),
		FirstPayment:   periods[0].PaymentMade,
		LastPayment:    last.PaymentMade,
		TotalPrincipal: principal.InexactFloat64(),
		TotalInterest:  interest.InexactFloat64(),
		TotalPayment:   payment.InexactFloat64(),
		ClosingBalance: last.ClosingBalance,
	}
}
