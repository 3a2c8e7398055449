package domain

import "time"

// LoanTerms are the request fields shared by most calculators. The tenure is
// TenureYears*12 + TenureMonths.
type LoanTerms struct {
	LoanAmount   float64 `json:"loanAmount"`
	InterestRate float64 `json:"interestRate"` // percent a year
	TenureYears  int     `json:"tenureYears"`
	TenureMonths int     `json:"tenureMonths"`
}

// Months is the tenure in months.
func (t LoanTerms) Months() int {
	return t.TenureYears*12 + t.TenureMonths
}

// Calendar places the first month of a schedule. Zero means the current
// month.
type Calendar struct {
	StartYear  int `json:"startYear,omitempty"`
	StartMonth int `json:"startMonth,omitempty"`
}

// CalculationMeta identifies a computed result.
type CalculationMeta struct {
	CalculationID string `json:"calculationId"`
}

// Stamp sets the calculation ID.
func (m *CalculationMeta) Stamp(id string) {
	m.CalculationID = id
}

func (m *CalculationMeta) ID() string {
	return m.CalculationID
}

// Calculation is a stored request/response pair.
type Calculation struct {
	ID        string    `json:"calculationId"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	Request   any       `json:"request"`
	Response  any       `json:"response"`
}

// EMI schemes.
const (
	SchemeArrears = "arrears"
	SchemeAdvance = "advance"
)

type EMIRequest struct {
	LoanTerms
	Calendar
	EMIAdvance bool `json:"emiAdvance"`
}

type EMIResponse struct {
	CalculationMeta
	EMI           float64      `json:"emi"`
	LoanAmount    float64      `json:"loanAmount"`
	TenureMonths  int          `json:"tenureMonths"`
	TotalInterest float64      `json:"totalInterest"`
	TotalAmount   float64      `json:"totalAmount"`
	Schedule      []YearBucket `json:"yearlyPaymentSchedule"`
}

type TenureRequest struct {
	Calendar
	LoanAmount   float64 `json:"loanAmount"`
	EMI          float64 `json:"emi"`
	InterestRate float64 `json:"interestRate"`
	FeesCharges  float64 `json:"feesCharges"`
	EMIScheme    string  `json:"emiScheme"`
}

type TenureResponse struct {
	CalculationMeta
	TenureMonths          int          `json:"tenureMonths"`
	TenureYears           int          `json:"tenureYears"`
	TenureRemainingMonths int          `json:"tenureRemainingMonths"`
	LoanAPR               float64      `json:"loanApr"`
	APRApproximate        bool         `json:"aprApproximate"`
	LoanAmount            float64      `json:"loanAmount"`
	EMI                   float64      `json:"emi"`
	FeesCharges           float64      `json:"feesCharges"`
	TotalInterest         float64      `json:"totalInterest"`
	TotalPayment          float64      `json:"totalPayment"`
	Schedule              []YearBucket `json:"paymentSchedule"`
}

type InterestRateRequest struct {
	LoanAmount   float64 `json:"loanAmount"`
	EMI          float64 `json:"emi"`
	TenureYears  int     `json:"tenureYears"`
	TenureMonths int     `json:"tenureMonths"`
	FeesCharges  float64 `json:"feesCharges"`
	EMIScheme    string  `json:"emiScheme"`
}

type InterestRateResponse struct {
	CalculationMeta
	InterestRate   float64 `json:"interestRate"`
	APR            float64 `json:"apr"`
	APRApproximate bool    `json:"aprApproximate"`
	Converged      bool    `json:"converged"`
	Iterations     int     `json:"iterations"`
	FeesCharges    float64 `json:"feesCharges"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPayment   float64 `json:"totalPayment"`
}

type LoanAmountRequest struct {
	Calendar
	EMI          float64 `json:"emi"`
	InterestRate float64 `json:"interestRate"`
	TenureYears  int     `json:"tenureYears"`
	TenureMonths int     `json:"tenureMonths"`
	FeesCharges  float64 `json:"feesCharges"`
	EMIScheme    string  `json:"emiScheme"`
}

type LoanAmountResponse struct {
	CalculationMeta
	PrincipalAmount float64      `json:"principalAmount"`
	LoanAPR         float64      `json:"loanApr"`
	APRApproximate  bool         `json:"aprApproximate"`
	EMI             float64      `json:"emi"`
	FeesCharges     float64      `json:"feesCharges"`
	TotalInterest   float64      `json:"totalInterest"`
	TotalPayment    float64      `json:"totalPayment"`
	Schedule        []YearBucket `json:"paymentSchedule"`
}

// Step-up types.
const (
	StepUpAmount     = "amount"
	StepUpPercentage = "percentage"
)

type StepUpRequest struct {
	LoanTerms
	Calendar
	InitialEMI      float64 `json:"initialEmi"` // zero solves it
	StepUpType      string  `json:"stepUpType"`
	StepUpValue     float64 `json:"stepUpValue"`
	StepUpFrequency int     `json:"stepUpFrequencyMonths"`
}

type StepUpResponse struct {
	CalculationMeta
	InitialEMI       float64      `json:"initialEmi"`
	InitialEMISolved bool         `json:"initialEmiSolved"`
	FinalEMI         float64      `json:"finalEmi"`
	TenureMonths     int          `json:"tenureMonths"`
	TotalInterest    float64      `json:"totalInterest"`
	TotalAmount      float64      `json:"totalAmount"`
	Schedule         []YearBucket `json:"yearlyPaymentSchedule"`
}

type FlatRateRequest struct {
	LoanTerms
	Calendar
}

type FlatRateResponse struct {
	CalculationMeta
	EMI                      float64      `json:"emi"`
	TotalInterest            float64      `json:"totalInterest"`
	TotalAmount              float64      `json:"totalAmount"`
	// EffectiveRate is nil when no comparable reducing rate exists;
	// EffectiveRateNote says why.
	EffectiveRate            *float64     `json:"effectiveRate,omitempty"`
	EffectiveRateNote        string       `json:"effectiveRateNote,omitempty"`
	EffectiveRateApproximate bool         `json:"effectiveRateApproximate"`
	Schedule                 []YearBucket `json:"yearlyPaymentSchedule"`
}

type RatePhase struct {
	FromMonth    int     `json:"fromMonth"`
	InterestRate float64 `json:"interestRate"`
	EMI          float64 `json:"emi,omitempty"`
}

type PhasedRateRequest struct {
	Calendar
	LoanAmount   float64     `json:"loanAmount"`
	TenureYears  int         `json:"tenureYears"`
	TenureMonths int         `json:"tenureMonths"`
	Phases       []RatePhase `json:"phases"`
}

type PhasedRateResponse struct {
	CalculationMeta
	Phases        []RatePhase  `json:"phases"`
	TotalInterest float64      `json:"totalInterest"`
	TotalAmount   float64      `json:"totalAmount"`
	Schedule      []YearBucket `json:"yearlyPaymentSchedule"`
}

type MoratoriumRequest struct {
	LoanTerms
	Calendar
	MoratoriumMonths int    `json:"moratoriumMonths"`
	MoratoriumType   string `json:"moratoriumType"` // full, interest_only or none
}

type MoratoriumResponse struct {
	CalculationMeta
	EMI                 float64      `json:"emi"`
	MoratoriumMonths    int          `json:"moratoriumMonths"`
	CapitalizedInterest float64      `json:"capitalizedInterest"`
	MoratoriumInterest  float64      `json:"moratoriumInterest"`
	BalloonDue          float64      `json:"balloonDue"`
	TotalInterest       float64      `json:"totalInterest"`
	TotalAmount         float64      `json:"totalAmount"`
	Schedule            []YearBucket `json:"yearlyPaymentSchedule"`
}

type OverdueRequest struct {
	LoanTerms
	Calendar
	PaidMonths    int     `json:"paidMonths"`
	OverdueMonths int     `json:"overdueMonths"`
	PenaltyRate   float64 `json:"penaltyRate"` // percent a year
}

type PenaltyMonth struct {
	Month         int     `json:"month"`
	OverdueAmount float64 `json:"overdueAmount"`
	Penalty       float64 `json:"penalty"`
	TotalDue      float64 `json:"totalDue"`
}

type OverdueResponse struct {
	CalculationMeta
	EMI                  float64        `json:"emi"`
	OutstandingPrincipal float64        `json:"outstandingPrincipal"`
	OverdueAmount        float64        `json:"overdueAmount"`
	PenaltyAmount        float64        `json:"penaltyAmount"`
	TotalDue             float64        `json:"totalDue"`
	PenaltySchedule      []PenaltyMonth `json:"penaltySchedule"`
	Schedule             []YearBucket   `json:"yearlyPaymentSchedule"`
}

type PartPaymentEntry struct {
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
}

type PartPaymentRequest struct {
	LoanTerms
	Calendar
	Prepayments []PartPaymentEntry `json:"prepayments"`
	Reduce      string             `json:"reduce"` // reduce_tenure or reduce_emi
}

type PartPaymentResponse struct {
	CalculationMeta
	OriginalEMI           float64      `json:"originalEmi"`
	RevisedEMI            float64      `json:"revisedEmi"`
	OriginalTenureMonths  int          `json:"originalTenureMonths"`
	RevisedTenureMonths   int          `json:"revisedTenureMonths"`
	TenureReduction       int          `json:"tenureReduction"`
	OriginalTotalInterest float64      `json:"originalTotalInterest"`
	RevisedTotalInterest  float64      `json:"revisedTotalInterest"`
	InterestSaved         float64      `json:"interestSaved"`
	OriginalSchedule      []YearBucket `json:"originalSchedule"`
	RevisedSchedule       []YearBucket `json:"revisedSchedule"`
}

type BulletRequest struct {
	LoanTerms
	Calendar
}

type BulletResponse struct {
	CalculationMeta
	MonthlyInterest float64      `json:"monthlyInterest"`
	BalloonPayment  float64      `json:"balloonPayment"`
	TotalInterest   float64      `json:"totalInterest"`
	TotalAmount     float64      `json:"totalAmount"`
	Schedule        []YearBucket `json:"yearlyPaymentSchedule"`
}

type EqualPrincipalRequest struct {
	LoanTerms
	Calendar
}

type EqualPrincipalResponse struct {
	CalculationMeta
	FirstEMI      float64      `json:"firstEmi"`
	LastEMI       float64      `json:"lastEmi"`
	TotalInterest float64      `json:"totalInterest"`
	TotalAmount   float64      `json:"totalAmount"`
	Schedule      []YearBucket `json:"yearlyPaymentSchedule"`
}
