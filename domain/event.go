package domain

import "fmt"

// Event is a one-time change applied after the regular payment of the period
// it is scheduled at.
type Event interface {
	isEvent()
}

// Reschedule picks what a prepayment shortens.
type Reschedule int

const (
	ReduceTenure Reschedule = iota
	ReduceAnnuity
)

func (r Reschedule) String() string {
	switch r {
	case ReduceTenure:
		return "reduce_tenure"
	case ReduceAnnuity:
		return "reduce_emi"
	default:
		return "unknown"
	}
}

// ParseReschedule accepts the String form of a mode.
func ParseReschedule(s string) (Reschedule, error) {
	for _, r := range []Reschedule{ReduceTenure, ReduceAnnuity} {
		if s == r.String() {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown reschedule mode %q", s)
}

// PartPrepayment pays Amount of principal out of schedule.
type PartPrepayment struct {
	Amount float64
	Mode   Reschedule
}

// RateTransition switches the periodic rate from the next period on.
type RateTransition struct {
	Rate float64
}

// MoratoriumEnd closes a deferral window that started at period 1. Unless
// ServiceInterest is set, interest for MonthsDeferred periods is capitalized
// into the balance before amortization resumes.
type MoratoriumEnd struct {
	MonthsDeferred  int
	ServiceInterest bool
}

func (PartPrepayment) isEvent() {}
func (RateTransition) isEvent() {}
func (MoratoriumEnd) isEvent()  {}

// ScheduledEvent attaches an Event to a period index.
type ScheduledEvent struct {
	Period int
	Event  Event
}
