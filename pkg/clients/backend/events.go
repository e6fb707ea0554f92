package backend

import (
	"context"
	"net/http"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

const eventsPath = "/production/events"

// ListEvents fetches every production event.
func (c *APIClient) ListEvents(ctx context.Context) ([]models.ProductionEvent, error) {
	return list[models.ProductionEvent](ctx, c, at(eventsPath))
}

// CreateEvent persists a new event and returns the stored record.
func (c *APIClient) CreateEvent(ctx context.Context, ev models.ProductionEvent) (*models.ProductionEvent, error) {
	return send[models.ProductionEvent](ctx, c, http.MethodPost, at(eventsPath), ev)
}

// UpdateEvent replaces the editable fields of an event.
func (c *APIClient) UpdateEvent(ctx context.Context, id string, ev models.ProductionEvent) (*models.ProductionEvent, error) {
	return send[models.ProductionEvent](ctx, c, http.MethodPatch, item(eventsPath, id), ev)
}

// DeleteEvent removes an event.
func (c *APIClient) DeleteEvent(ctx context.Context, id string) error {
	return remove(ctx, c, item(eventsPath, id))
}
