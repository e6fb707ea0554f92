package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

// Login exchanges credentials for a token and starts the session.
func (c *APIClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	res, err := send[models.LoginResult](ctx, c, http.MethodPost, at("/auth/login"), creds)
	if err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, errors.New("POST /auth/login: empty access token")
	}
	c.session.Start(res.AccessToken, res.User)
	return res, nil
}

// Me returns the profile of the signed-in operator.
func (c *APIClient) Me(ctx context.Context) (*models.User, error) {
	return get[models.User](ctx, c, at("/auth/me"))
}

// Logout ends the session locally.
func (c *APIClient) Logout() {
	c.session.Clear()
}
