package repository

import (
	"context"
	"errors"
	"sync"

	"loan-engine/domain"
)

// DefaultHistorySize bounds the in-memory history.
const DefaultHistorySize = 1000

// CalculationRepositoryMemory is an in-memory implementation of
// CalculationRepository. Once full, the oldest calculation is dropped.
type CalculationRepositoryMemory struct {
	mu    sync.RWMutex
	max   int
	order []string
	data  map[string]domain.Calculation
}

// NewCalculationRepositoryMemory creates a history holding at most max
// calculations. A non-positive max uses DefaultHistorySize.
func NewCalculationRepositoryMemory(max int) *CalculationRepositoryMemory {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &CalculationRepositoryMemory{
		max:  max,
		data: make(map[string]domain.Calculation, max),
	}
}

// Save stores the calculation under its ID.
func (r *CalculationRepositoryMemory) Save(_ context.Context, calc domain.Calculation) error {
	if calc.ID == "" {
		return errors.New("calculation has no ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[calc.ID]; !exists {
		if len(r.order) == r.max {
			delete(r.data, r.order[0])
			r.order = r.order[1:]
		}
		r.order = append(r.order, calc.ID)
	}
	r.data[calc.ID] = calc
	return nil
}

func (r *CalculationRepositoryMemory) Get(_ context.Context, id string) (domain.Calculation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	calc, ok := r.data[id]
	return calc, ok
}

// Len is the number of stored calculations.
func (r *CalculationRepositoryMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
