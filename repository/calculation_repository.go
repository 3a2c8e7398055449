package repository

import (
	"context"

	"loan-engine/domain"
)

type CalculationRepository interface {
	Save(ctx context.Context, calc domain.Calculation) error
	Get(ctx context.Context, id string) (domain.Calculation, bool)
}
