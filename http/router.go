package http

import (
	"net/http"
)

// Router wires every calculator route behind rate limiting and metrics.
type Router struct {
	Loan        *LoanHandler
	Terms       *TermRecommendationHandler
	RateLimiter *RateLimiter
	Metrics     *Metrics
}

func (rt Router) Handler() http.Handler {
	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"/calculate", rt.Loan.CalculateEMI},
		{"/calculate-loan-tenure", rt.Loan.CalculateTenure},
		{"/calculate-interest-rate", rt.Loan.CalculateInterestRate},
		{"/calculate-loan-amount", rt.Loan.CalculateLoanAmount},
		{"/calculate-step-up", rt.Loan.CalculateStepUp},
		{"/calculate-flat-rate", rt.Loan.CalculateFlatRate},
		{"/calculate-phased-rate", rt.Loan.CalculatePhasedRate},
		{"/calculate-moratorium", rt.Loan.CalculateMoratorium},
		{"/calculate-overdue", rt.Loan.CalculateOverdue},
		{"/calculate-part-payment", rt.Loan.CalculatePartPayment},
		{"/calculate-bullet", rt.Loan.CalculateBullet},
		{"/calculate-equal-principal", rt.Loan.CalculateEqualPrincipal},
		{"/loan/recommend-term", rt.Terms.RecommendTerm},
		{"/calculations/{id}", rt.Loan.GetCalculation},
	}

	mux := http.NewServeMux()
	for _, route := range routes {
		var h http.Handler = route.handler
		if rt.RateLimiter != nil {
			h = RateLimitMiddleware(rt.RateLimiter, h)
		}
		if rt.Metrics != nil {
			h = rt.Metrics.Middleware(route.pattern, h)
		}
		mux.Handle(route.pattern, h)
	}
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics.Handler())
	}
	return mux
}
