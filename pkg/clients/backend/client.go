package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/config"
	"github.com/mamadbah2/biogeles/internal/metrics"
)

var (
	// ErrUnauthorized is returned for 401 responses; the session has already been cleared.
	ErrUnauthorized = errors.New("unauthorized, must re-authenticate")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")
	// ErrTransport wraps network level failures (no HTTP response).
	ErrTransport = errors.New("backend unreachable")
	// ErrInvalidResponse is returned when the backend answered with a body that cannot be decoded.
	ErrInvalidResponse = errors.New("backend returned an unreadable response")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend api error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("backend api error: status=%d, message=%s", e.StatusCode, e.Message)
}

// Unwrap lets callers match the status classes with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// errorBody is the error payload shape of the backend.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// APIClient is a resty-backed client of the production backend.
type APIClient struct {
	httpClient *resty.Client
	session    *Session
	logger     *zap.Logger
}

// NewClient builds a client whose requests carry the session's bearer token.
func NewClient(cfg config.BackendConfig, session *Session, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if session == nil {
		session = NewSession()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	restyClient.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if token := session.Token(); token != "" {
			r.SetAuthToken(token)
		}
		return nil
	})

	return &APIClient{httpClient: restyClient, session: session, logger: logger}
}

// Session exposes the session the client authenticates with.
func (c *APIClient) Session() *Session {
	return c.session
}

func (c *APIClient) request(ctx context.Context) *resty.Request {
	return c.httpClient.R().SetContext(ctx).SetError(&errorBody{})
}

// check converts transport failures and error statuses into typed errors.
func (c *APIClient) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		if resp == nil || resp.StatusCode() == 0 {
			return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
		}
		if resp.StatusCode() < http.StatusBadRequest {
			c.logger.Error("backend response not decodable", zap.String("op", op), zap.Int("status", resp.StatusCode()), zap.Error(err))
			return fmt.Errorf("%s: %w: %w", op, ErrInvalidResponse, err)
		}
		// An unreadable error body still carries its status.
	}
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		c.session.Clear()
		metrics.BackendUnauthorized.Inc()
		c.logger.Warn("backend rejected session token", zap.String("op", op))
	} else {
		c.logger.Debug("backend returned error", zap.String("op", op), zap.Int("status", apiErr.StatusCode), zap.String("message", apiErr.Message))
	}

	return fmt.Errorf("%s: %w", op, apiErr)
}

// endpoint is a path template and the values resty escapes into it.
type endpoint struct {
	path   string
	params map[string]string
	query  map[string]string
}

func at(path string) endpoint {
	return endpoint{path: path}
}

func item(collection, id string) endpoint {
	return endpoint{path: collection + "/{id}", params: map[string]string{"id": id}}
}

func (c *APIClient) requestTo(ctx context.Context, ep endpoint) *resty.Request {
	return c.request(ctx).SetPathParams(ep.params).SetQueryParams(ep.query)
}

func list[T any](ctx context.Context, c *APIClient, ep endpoint) ([]T, error) {
	var out []T
	resp, err := c.requestTo(ctx, ep).SetResult(&out).Get(ep.path)
	if err := c.check("GET "+ep.path, resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func get[T any](ctx context.Context, c *APIClient, ep endpoint) (*T, error) {
	out := new(T)
	resp, err := c.requestTo(ctx, ep).SetResult(out).Get(ep.path)
	if err := c.check("GET "+ep.path, resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func send[T any](ctx context.Context, c *APIClient, method string, ep endpoint, body any) (*T, error) {
	out := new(T)
	resp, err := c.requestTo(ctx, ep).SetBody(body).SetResult(out).Execute(method, ep.path)
	if err := c.check(method+" "+ep.path, resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func remove(ctx context.Context, c *APIClient, ep endpoint) error {
	resp, err := c.requestTo(ctx, ep).Delete(ep.path)
	return c.check("DELETE "+ep.path, resp, err)
}
