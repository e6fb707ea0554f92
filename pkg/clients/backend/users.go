package backend

import (
	"context"
	"net/http"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

const (
	usersPath    = "/users"
	settingsPath = "/config"
)

func (c *APIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, c, at(usersPath))
}

func (c *APIClient) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPost, at(usersPath), u)
}

func (c *APIClient) UpdateUser(ctx context.Context, id string, u models.User) (*models.User, error) {
	return send[models.User](ctx, c, http.MethodPatch, item(usersPath, id), u)
}

func (c *APIClient) DeleteUser(ctx context.Context, id string) error {
	return remove(ctx, c, item(usersPath, id))
}

// GetSettings reads the system configuration toggles.
func (c *APIClient) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	return get[models.SystemSettings](ctx, c, at(settingsPath))
}

// UpdateSettings replaces the system configuration toggles.
func (c *APIClient) UpdateSettings(ctx context.Context, s models.SystemSettings) (*models.SystemSettings, error) {
	return send[models.SystemSettings](ctx, c, http.MethodPut, at(settingsPath), s)
}
