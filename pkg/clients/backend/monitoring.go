package backend

import (
	"context"
	"net/http"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

const (
	sectorsPath = "/sectors"
	alertsPath  = "/alerts"
)

func (c *APIClient) ListSectors(ctx context.Context) ([]models.Sector, error) {
	return list[models.Sector](ctx, c, at(sectorsPath))
}

func (c *APIClient) CreateSector(ctx context.Context, s models.Sector) (*models.Sector, error) {
	return send[models.Sector](ctx, c, http.MethodPost, at(sectorsPath), s)
}

// SectorReadings returns the temperature samples of a sector over the given range (24h, 7d, 30d).
func (c *APIClient) SectorReadings(ctx context.Context, sectorID, timeRange string) ([]models.SectorReading, error) {
	ep := item(sectorsPath, sectorID)
	ep.path += "/readings"
	ep.query = map[string]string{"range": timeRange}
	return list[models.SectorReading](ctx, c, ep)
}

func (c *APIClient) ListAlerts(ctx context.Context) ([]models.MonitoringAlert, error) {
	return list[models.MonitoringAlert](ctx, c, at(alertsPath))
}
