package solver

// Config holds the solver tunables.
type Config struct {
	// Tolerance is the payment difference, in currency units, at which the
	// rate bisection stops.
	Tolerance float64

	// MaxIterations caps the bisection. Hitting it is not an error: the last
	// midpoint is returned with Converged set to false.
	MaxIterations int

	// AnnualRateCeiling bounds the rate search (0.5 = 50% a year).
	AnnualRateCeiling float64

	// PeriodsPerYear converts AnnualRateCeiling into a periodic bound.
	PeriodsPerYear int

	// TenureCeiling is the longest tenure SolveTenure accepts, in periods.
	TenureCeiling int
}

// DefaultConfig suits monthly loans.
var DefaultConfig = Config{
	Tolerance:         1e-4,
	MaxIterations:     2000,
	AnnualRateCeiling: 0.5,
	PeriodsPerYear:    12,
	TenureCeiling:     360,
}

func (c Config) periodicCeiling() float64 {
	if c.PeriodsPerYear <= 0 {
		return c.AnnualRateCeiling
	}
	return c.AnnualRateCeiling / float64(c.PeriodsPerYear)
}
