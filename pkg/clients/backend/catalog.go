package backend

import (
	"context"
	"net/http"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

const (
	speciesPath  = "/species"
	formulasPath = "/formulas"
)

// ListSpecies fetches the algae species catalog.
func (c *APIClient) ListSpecies(ctx context.Context) ([]models.Species, error) {
	return list[models.Species](ctx, c, at(speciesPath))
}

func (c *APIClient) CreateSpecies(ctx context.Context, s models.Species) (*models.Species, error) {
	return send[models.Species](ctx, c, http.MethodPost, at(speciesPath), s)
}

func (c *APIClient) UpdateSpecies(ctx context.Context, id string, s models.Species) (*models.Species, error) {
	return send[models.Species](ctx, c, http.MethodPatch, item(speciesPath, id), s)
}

func (c *APIClient) DeleteSpecies(ctx context.Context, id string) error {
	return remove(ctx, c, item(speciesPath, id))
}

// ListFormulas fetches the nutrient formulas.
func (c *APIClient) ListFormulas(ctx context.Context) ([]models.Formula, error) {
	return list[models.Formula](ctx, c, at(formulasPath))
}

func (c *APIClient) CreateFormula(ctx context.Context, f models.Formula) (*models.Formula, error) {
	return send[models.Formula](ctx, c, http.MethodPost, at(formulasPath), f)
}

func (c *APIClient) UpdateFormula(ctx context.Context, id string, f models.Formula) (*models.Formula, error) {
	return send[models.Formula](ctx, c, http.MethodPatch, item(formulasPath, id), f)
}

func (c *APIClient) DeleteFormula(ctx context.Context, id string) error {
	return remove(ctx, c, item(formulasPath, id))
}
