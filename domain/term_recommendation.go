package domain

// Accepted preferences
const (
	PreferenceMinimizeInterest = "minimize_interest"
	PreferenceMinimizePayment  = "minimize_payment"
	PreferenceBalanced         = "balanced"
)

type TermRecommendationInput struct {
	LoanAmount        float64 `json:"loanAmount"`
	InterestRate      float64 `json:"interestRate"`
	MinTermMonths     int     `json:"minTermMonths"`
	MaxTermMonths     int     `json:"maxTermMonths"`
	MaxMonthlyPayment float64 `json:"maxMonthlyPayment"`
	Preference        string  `json:"preference"`
}

type TermRecommendation struct {
	TermMonths     int     `json:"termMonths"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason"`
}

type TermRecommendationResult struct {
	CalculationMeta
	RecommendedTerm int                  `json:"recommendedTerm"`
	Recommendations []TermRecommendation `json:"recommendations"`
}
