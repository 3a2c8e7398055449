package solver

import "math"

// AnnuityPayment is the level payment, due at the end of each period, that
// repays principal over n periods at the periodic rate.
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
func AnnuityPayment(principal, rate float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	if rate == 0 {
		return principal / float64(n)
	}
	factor := math.Pow(1+rate, float64(n))
	return principal * rate * factor / (factor - 1)
}

// AdvanceAnnuityPayment is the level payment due at the start of each period.
//
//	payment = P * r * (1+r)^(n-1) / ((1+r)^n - 1)
func AdvanceAnnuityPayment(principal, rate float64, n int) float64 {
	return AnnuityPayment(principal, rate, n) / (1 + rate)
}

// Payment picks the arrears or advance formula.
func Payment(principal, rate float64, n int, advance bool) float64 {
	if advance {
		return AdvanceAnnuityPayment(principal, rate, n)
	}
	return AnnuityPayment(principal, rate, n)
}

// PresentValue discounts n level payments at the periodic rate.
func PresentValue(payment, rate float64, n int, advance bool) float64 {
	if n <= 0 {
		return 0
	}
	if rate == 0 {
		return payment * float64(n)
	}
	pv := payment * (1 - math.Pow(1+rate, -float64(n))) / rate
	if advance {
		pv *= 1 + rate
	}
	return pv
}
