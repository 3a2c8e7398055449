package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLoan      = errors.New("invalid loan")
	ErrInfeasibleTenure = errors.New("infeasible tenure")
	ErrInfeasibleRate   = errors.New("infeasible rate")
)

// InvalidLoanError rejects a loan before any period is simulated.
type InvalidLoanError struct {
	Reason string
}

func NewInvalidLoanError(reason string) *InvalidLoanError {
	return &InvalidLoanError{Reason: reason}
}

func (e *InvalidLoanError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidLoan, e.Reason)
}

func (e *InvalidLoanError) Unwrap() error { return ErrInvalidLoan }

// InfeasibleTenureError means no finite tenure repays the loan.
type InfeasibleTenureError struct {
	Reason string
}

func (e *InfeasibleTenureError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInfeasibleTenure, e.Reason)
}

func (e *InfeasibleTenureError) Unwrap() error { return ErrInfeasibleTenure }

// InfeasibleRateError means the rate search could not bracket an answer.
type InfeasibleRateError struct {
	Reason string
}

func (e *InfeasibleRateError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInfeasibleRate, e.Reason)
}

func (e *InfeasibleRateError) Unwrap() error { return ErrInfeasibleRate }
