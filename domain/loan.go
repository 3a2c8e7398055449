package domain

// Loan is the immutable input of a simulation. Periods are unit-agnostic:
// the rates in the schedule are per period, whatever a period is.
type Loan struct {
	Principal   float64
	Rates       RateSchedule
	Policy      PaymentPolicy
	Events      []ScheduledEvent
	PeriodCount int
	Advance     bool // payment due at the start of each period instead of the end
}

// RateStep is one entry of a RateSchedule.
type RateStep struct {
	FromPeriod int
	Rate       float64
}

// RateSchedule lists periodic rates by the period they take effect from.
// FromPeriod is strictly increasing and the first step starts at period 1.
type RateSchedule []RateStep

// ConstantRate returns a one-step schedule.
func ConstantRate(rate float64) RateSchedule {
	return RateSchedule{{FromPeriod: 1, Rate: rate}}
}

// RateAt returns the rate of the last step whose FromPeriod is <= period.
func (s RateSchedule) RateAt(period int) float64 {
	rate := 0.0
	for _, step := range s {
		if step.FromPeriod > period {
			break
		}
		rate = step.Rate
	}
	return rate
}

// ChangesAt reports whether a step begins exactly at period (other than the first).
func (s RateSchedule) ChangesAt(period int) bool {
	if period <= 1 {
		return false
	}
	for _, step := range s {
		if step.FromPeriod == period {
			return true
		}
	}
	return false
}

// Validate checks ordering and sign.
func (s RateSchedule) Validate() error {
	if len(s) == 0 {
		return NewInvalidLoanError("rate schedule is empty")
	}
	if s[0].FromPeriod != 1 {
		return NewInvalidLoanError("rate schedule must start at period 1")
	}
	for i, step := range s {
		if step.Rate < 0 {
			return NewInvalidLoanError("periodic rate must not be negative")
		}
		if i > 0 && step.FromPeriod <= s[i-1].FromPeriod {
			return NewInvalidLoanError("rate schedule periods must be strictly increasing")
		}
	}
	return nil
}

// PeriodRecord is one emitted row of a schedule. Money values are rounded for
// display; the engine never feeds them back into the simulation.
type PeriodRecord struct {
	Index                 int     `json:"month"`
	OpeningBalance        float64 `json:"opening_balance"`
	InterestAccrued       float64 `json:"interest"`
	PrincipalPaid         float64 `json:"principal"`
	PaymentMade           float64 `json:"total_payment"`
	Prepayment            float64 `json:"prepayment,omitempty"`
	Capitalized           float64 `json:"capitalized,omitempty"`
	ClosingBalance        float64 `json:"balance"`
	CumulativePaidPercent float64 `json:"loan_paid_percentage"`
}

// YearBucket groups the records of one calendar year.
type YearBucket struct {
	Year           int            `json:"year"`
	FirstMonth     int            `json:"first_month"`
	MonthsInYear   int            `json:"months_in_year"`
	Principal      float64        `json:"principal"`
	Interest       float64        `json:"interest"`
	Payment        float64        `json:"total_payment"`
	Prepayment     float64        `json:"prepayment,omitempty"`
	ClosingBalance float64        `json:"balance"`
	PaidPercent    float64        `json:"loan_paid_percentage"`
	MonthlyData    []PeriodRecord `json:"monthly_data"`
}

// Summary totals a schedule.
type Summary struct {
	Periods        int     `json:"periods"`
	FirstPayment   float64 `json:"first_payment"`
	LastPayment    float64 `json:"last_payment"`
	TotalPrincipal float64 `json:"total_principal"`
	TotalInterest  float64 `json:"total_interest"`
	TotalPayment   float64 `json:"total_payment"`
	ClosingBalance float64 `json:"closing_balance"`
}
