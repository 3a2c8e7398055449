package service

import "time"

const (
	MaxLoanAmount   = 1_000_000_000.0 // one billion
	MaxInterestRate = 100.0           // percent a year
	MaxTermMonths   = 600             // 50 years
	MinTermMonths   = 1

	MaxPenaltyRate  = 100.0
	MaxPrepayments  = 120
	MaxRatePhases   = 24
	DefaultStepFreq = 12 // months between steps

	// Term recommendation bounds
	MaxTermRangeMonths = 120 // widest term range evaluated (10 years)

	DefaultCacheTTL = 10 * time.Minute
)
