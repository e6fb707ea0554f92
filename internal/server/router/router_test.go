package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	cal "github.com/mamadbah2/biogeles/internal/calendar"
	"github.com/mamadbah2/biogeles/internal/config"
	"github.com/mamadbah2/biogeles/internal/domain/models"
	"github.com/mamadbah2/biogeles/internal/server/handlers"
	"github.com/mamadbah2/biogeles/internal/service/admin"
	"github.com/mamadbah2/biogeles/internal/service/auth"
	"github.com/mamadbah2/biogeles/internal/service/calendar"
	"github.com/mamadbah2/biogeles/internal/service/monitoring"
	"github.com/mamadbah2/biogeles/internal/service/notify"
	"github.com/mamadbah2/biogeles/internal/service/orders"
	"github.com/mamadbah2/biogeles/internal/service/reporting"
	"github.com/mamadbah2/biogeles/pkg/clients/backend"
)

// setupTest wires every handler over a client that never gets called: the
// routes exercised here stop in middleware or touch only the session.
func setupTest(t *testing.T) (*gin.Engine, *backend.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard

	session := backend.NewSession()
	client := backend.NewClient(config.BackendConfig{BaseURL: "http://127.0.0.1:0", Timeout: time.Second}, session, nil)
	mapper := cal.NewMapper(time.UTC)

	h := Handlers{
		Auth:       handlers.NewAuthHandler(auth.NewService(client, session, nil), nil, nil),
		Calendar:   handlers.NewCalendarHandler(calendar.NewScreen(client, mapper, nil), nil),
		Orders:     handlers.NewOrdersHandler(orders.NewService(client, nil), nil),
		Admin:      handlers.NewAdminHandler(admin.NewService(client, nil), nil),
		Monitoring: handlers.NewMonitoringHandler(monitoring.NewService(client, time.UTC, nil), nil),
		Reports: handlers.NewReportsHandler(
			reporting.NewService(client, time.UTC, nil),
			reporting.NewExporter(client, nil, nil, time.UTC, nil),
			notify.NewService(config.WhatsAppConfig{}, nil, client, mapper, nil),
			time.UTC, nil,
		),
	}
	return New(h, session, nil), session
}

func serve(r http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r, _ := setupTest(t)

	w := serve(r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	r, _ := setupTest(t)

	w := serve(r, http.MethodGet, "/healthz", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = serve(r, http.MethodGet, "/healthz", http.Header{RequestIDHeader: []string{"req-42"}})
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := setupTest(t)

	serve(r, http.MethodGet, "/healthz", nil)
	w := serve(r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "biogeles_http_requests_total")
}

func TestSessionGuard(t *testing.T) {
	r, session := setupTest(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"Calendar", http.MethodGet, "/api/calendar", http.StatusUnauthorized},
		{"Orders", http.MethodGet, "/api/orders", http.StatusUnauthorized},
		{"Admin", http.MethodGet, "/api/admin/summary", http.StatusUnauthorized},
		{"Monitoring", http.MethodGet, "/api/monitoring", http.StatusUnauthorized},
		{"Dashboard", http.MethodGet, "/api/dashboard", http.StatusUnauthorized},
		{"Excel", http.MethodGet, "/api/reports/excel", http.StatusUnauthorized},
		{"Profile", http.MethodGet, "/api/auth/me", http.StatusUnauthorized},
		{"Login prefill is public", http.MethodGet, "/api/auth/login", http.StatusOK},
		{"Status is public", http.MethodGet, "/api/auth/status", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	assert.False(t, session.Authenticated())
}

func TestSessionGuard_AllowsSignedInOperator(t *testing.T) {
	r, session := setupTest(t)
	session.Start("tok-1", models.User{ID: "USR-001", Role: models.RoleOperator})

	// Closing the detail view needs no backend call.
	w := serve(r, http.MethodDelete, "/api/calendar/selection", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
