package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"loan-engine/domain"
)

// Aggregate groups a schedule into calendar years. The first bucket runs
// from startMonth to December; the last one ends with the schedule.
// Bucket sums are exact sums of the records' display values.
func Aggregate(periods []domain.PeriodRecord, startYear, startMonth int) ([]domain.YearBucket, error) {
	if startMonth < 1 || startMonth > 12 {
		return nil, fmt.Errorf("start month %d is outside 1..12", startMonth)
	}

	buckets := make([]domain.YearBucket, 0, len(periods)/12+2)
	year, firstMonth := startYear, startMonth
	for i := 0; i < len(periods); {
		size := 13 - firstMonth
		end := i + size
		if end > len(periods) {
			end = len(periods)
		}
		buckets = append(buckets, bucketOf(periods[i:end], year, firstMonth))
		i = end
		year++
		firstMonth = 1
	}
	return buckets, nil
}

func bucketOf(chunk []domain.PeriodRecord, year, firstMonth int) domain.YearBucket {
	var principal, interest, payment, prepayment decimal.Decimal
	for _, r := range chunk {
		principal = principal.Add(decimal.NewFromFloat(r.PrincipalPaid))
		interest = interest.Add(decimal.NewFromFloat(r.InterestAccrued))
		payment = payment.Add(decimal.NewFromFloat(r.PaymentMade))
		prepayment = prepayment.Add(decimal.NewFromFloat(r.Prepayment))
	}
	last := chunk[len(chunk)-1]
	return domain.YearBucket{
		Year:           year,
		FirstMonth:     firstMonth,
		MonthsInYear:   len(chunk),
		Principal:      principal.InexactFloat64(),
		Interest:       interest.InexactFloat64(),
		Payment:        payment.InexactFloat64(),
		Prepayment:     prepayment.InexactFloat64(),
		ClosingBalance: last.ClosingBalance,
		PaidPercent:    last.CumulativePaidPercent,
		MonthlyData:    append([]domain.PeriodRecord(nil), chunk...),
	}
}
