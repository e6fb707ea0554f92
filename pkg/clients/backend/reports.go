package backend

import (
	"context"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

func (c *APIClient) ProductionBySpecies(ctx context.Context) ([]models.SpeciesProduction, error) {
	return list[models.SpeciesProduction](ctx, c, at("/reports/production-by-species"))
}

func (c *APIClient) Performance(ctx context.Context) ([]models.MonthlyPerformance, error) {
	return list[models.MonthlyPerformance](ctx, c, at("/reports/performance"))
}

func (c *APIClient) MonthlyProduction(ctx context.Context) ([]models.MonthlyProduction, error) {
	return list[models.MonthlyProduction](ctx, c, at("/reports/production-monthly"))
}
