package backend

import (
	"context"
	"net/http"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

const ordersPath = "/orders"

func (c *APIClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	return list[models.Order](ctx, c, at(ordersPath))
}

func (c *APIClient) CreateOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	return send[models.Order](ctx, c, http.MethodPost, at(ordersPath), o)
}

func (c *APIClient) UpdateOrder(ctx context.Context, id string, o models.Order) (*models.Order, error) {
	return send[models.Order](ctx, c, http.MethodPatch, item(ordersPath, id), o)
}

func (c *APIClient) DeleteOrder(ctx context.Context, id string) error {
	return remove(ctx, c, item(ordersPath, id))
}
