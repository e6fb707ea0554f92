package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cal "github.com/mamadbah2/biogeles/internal/calendar"
	"github.com/mamadbah2/biogeles/internal/domain/models"
	"github.com/mamadbah2/biogeles/internal/service/auth"
	"github.com/mamadbah2/biogeles/internal/service/calendar"
	"github.com/mamadbah2/biogeles/internal/service/orders"
	"github.com/mamadbah2/biogeles/pkg/clients/backend"
)

func setupEngine(prefix string, register func(g *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard

	r := gin.New()
	register(r.Group(prefix))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		buf = bytes.NewBufferString(raw)
	}
	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// calendar

type eventStore struct {
	records   []models.ProductionEvent
	listCalls int
	deleted   []string
	err       error
}

func (s *eventStore) ListEvents(context.Context) ([]models.ProductionEvent, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.ProductionEvent(nil), s.records...), nil
}

func (s *eventStore) CreateEvent(_ context.Context, ev models.ProductionEvent) (*models.ProductionEvent, error) {
	ev.ID = "evt-new"
	return &ev, nil
}

func (s *eventStore) UpdateEvent(_ context.Context, id string, ev models.ProductionEvent) (*models.ProductionEvent, error) {
	ev.ID = models.ID(id)
	return &ev, nil
}

func (s *eventStore) DeleteEvent(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func calendarEngine(store *eventStore) *gin.Engine {
	screen := calendar.NewScreen(store, cal.NewMapper(time.UTC), nil)
	h := NewCalendarHandler(screen, nil)
	return setupEngine("/api/calendar", h.Register)
}

func novemberStore() *eventStore {
	return &eventStore{records: []models.ProductionEvent{
		{ID: "1", Title: "Cosecha Lote A", StartDate: "2024-11-12T00:00:00Z", Type: models.EventHarvest, AlertLevel: models.AlertNone},
		{ID: "2", Title: "Control de nutrientes", StartDate: "2024-11-08T00:00:00Z", Type: models.EventGrowth, AlertLevel: models.AlertHigh},
	}}
}

func TestCalendarView_FetchesOnceUntilRefresh(t *testing.T) {
	store := novemberStore()
	r := calendarEngine(store)

	w := doJSON(t, r, http.MethodGet, "/api/calendar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[calendar.View](t, w)
	assert.Equal(t, "Noviembre 2024", view.Titulo)

	doJSON(t, r, http.MethodGet, "/api/calendar", nil)
	assert.Equal(t, 1, store.listCalls)

	doJSON(t, r, http.MethodGet, "/api/calendar?refresh=1", nil)
	assert.Equal(t, 2, store.listCalls)
}

func TestCalendarNavigate(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantTitle  string
	}{
		{"Next month", map[string]string{"accion": "next-month"}, http.StatusOK, "Diciembre 2024"},
		{"Previous year", map[string]string{"accion": "prev-year"}, http.StatusOK, "Noviembre 2023"},
		{"Year view", map[string]string{"accion": "toggle"}, http.StatusOK, "Vista Anual - 2024"},
		{"Unknown action", map[string]string{"accion": "sideways"}, http.StatusBadRequest, ""},
		{"Malformed body", "{", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := calendarEngine(novemberStore())
			w := doJSON(t, r, http.MethodPost, "/api/calendar/navigate", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantTitle, decode[calendar.View](t, w).Titulo)
			} else {
				assert.NotEmpty(t, decode[map[string]any](t, w)["error"])
			}
		})
	}
}

func TestCalendarSelectMonth(t *testing.T) {
	r := calendarEngine(novemberStore())

	w := doJSON(t, r, http.MethodPost, "/api/calendar/months/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Marzo 2024", decode[calendar.View](t, w).Titulo)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/api/calendar/months/12", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/api/calendar/months/marzo", nil).Code)
}

func TestCalendarSelectEvent(t *testing.T) {
	r := calendarEngine(novemberStore())

	w := doJSON(t, r, http.MethodGet, "/api/calendar/events/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[calendar.Detail](t, w)
	assert.Equal(t, "Día 8 de Noviembre 2024", detail.Fecha)
	require.NotNil(t, detail.Alerta)

	w = doJSON(t, r, http.MethodGet, "/api/calendar/events/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalendarCreate(t *testing.T) {
	tests := []struct {
		name       string
		form       calendar.Form
		wantStatus int
	}{
		{"Valid", calendar.Form{Dia: 20, Mes: 10, Anio: 2024, Etapa: cal.StageSeeding, Detalles: "Siembra Lote D"}, http.StatusCreated},
		{"Day out of range", calendar.Form{Dia: 31, Mes: 10, Anio: 2024, Etapa: cal.StageSeeding, Detalles: "Siembra Lote D"}, http.StatusBadRequest},
		{"Blank details", calendar.Form{Dia: 20, Mes: 10, Anio: 2024, Etapa: cal.StageSeeding}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := calendarEngine(novemberStore())
			w := doJSON(t, r, http.MethodPost, "/api/calendar/events", tt.form)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "evt-new", decode[cal.Event](t, w).ID)
			}
		})
	}
}

func TestCalendarDelete(t *testing.T) {
	store := novemberStore()
	r := calendarEngine(store)

	w := doJSON(t, r, http.MethodDelete, "/api/calendar/events/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"1"}, store.deleted)

	store.err = fmt.Errorf("delete: %w", backend.ErrUnauthorized)
	w = doJSON(t, r, http.MethodDelete, "/api/calendar/events/2", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgSessionExpired, decode[map[string]any](t, w)["error"])
}

// orders

type orderStore struct {
	records []models.Order
	created []models.Order
	err     error
}

func (s *orderStore) ListOrders(context.Context) ([]models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Order(nil), s.records...), nil
}

func (s *orderStore) CreateOrder(_ context.Context, o models.Order) (*models.Order, error) {
	o.ID = "PED-010"
	s.created = append(s.created, o)
	return &o, nil
}

func (s *orderStore) UpdateOrder(_ context.Context, id string, o models.Order) (*models.Order, error) {
	o.ID = models.ID(id)
	return &o, nil
}

func (s *orderStore) DeleteOrder(context.Context, string) error { return nil }

func ordersEngine(store *orderStore) *gin.Engine {
	h := NewOrdersHandler(orders.NewService(store, nil), nil)
	return setupEngine("/api/orders", h.Register)
}

func TestOrdersList(t *testing.T) {
	store := &orderStore{records: []models.Order{
		{ID: "PED-001", Customer: "Restaurante Mar Azul", Product: "Spirulina", Quantity: "50 kg", Status: models.OrderPending},
		{ID: "PED-002", Customer: "Farmacia Natural", Product: "Chlorella", Quantity: "20 kg", Status: models.OrderCompleted},
	}}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLabel  string
	}{
		{"All", "", http.StatusOK, "2 pedidos"},
		{"Pending", "?estado=pendiente", http.StatusOK, "1 pedido"},
		{"Unknown filter", "?estado=cancelado", http.StatusBadRequest, ""},
	}

	r := ordersEngine(store)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, "/api/orders"+tt.query, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantLabel, decode[orders.List](t, w).Etiqueta)
			}
		})
	}
}

func TestOrdersCreate(t *testing.T) {
	store := &orderStore{}
	r := ordersEngine(store)

	w := doJSON(t, r, http.MethodPost, "/api/orders", orders.Form{Producto: "Spirulina"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.created)

	w = doJSON(t, r, http.MethodPost, "/api/orders", orders.Form{Cliente: "Hotel Costa", Producto: "Nori", Cantidad: "10 kg"})
	require.Equal(t, http.StatusCreated, w.Code)
	o := decode[orders.Order](t, w)
	assert.Equal(t, "PED-010", o.ID)
	assert.Equal(t, orders.EstadoPendiente, o.Estado)

	w = doJSON(t, r, http.MethodGet, "/api/orders/PED-010", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrdersBackendFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"Session expired", &backend.APIError{StatusCode: http.StatusUnauthorized}, http.StatusUnauthorized},
		{"Backend down", fmt.Errorf("list orders: %w", backend.ErrTransport), http.StatusBadGateway},
		{"Backend rejected", &backend.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"}, http.StatusBadGateway},
		{"Unreadable response", fmt.Errorf("GET /orders: %w: %w", backend.ErrInvalidResponse, assert.AnError), http.StatusBadGateway},
		{"Unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ordersEngine(&orderStore{err: tt.err})
			w := doJSON(t, r, http.MethodGet, "/api/orders", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, decode[map[string]any](t, w)["error"])
		})
	}
}

func TestOrdersUnreadableResponse_ReportsInvalidData(t *testing.T) {
	r := ordersEngine(&orderStore{err: fmt.Errorf("GET /orders: %w: %w", backend.ErrInvalidResponse, assert.AnError)})

	w := doJSON(t, r, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "El servidor devolvió datos inválidos", decode[map[string]any](t, w)["error"])
}

// auth

type authBackend struct {
	session *backend.Session
	err     error
}

func (b *authBackend) Login(_ context.Context, creds models.Credentials) (*models.LoginResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	user := models.User{ID: "USR-001", Name: "Carlos Rivera", Email: creds.Email, Role: models.RoleAdmin, Status: models.UserActive}
	b.session.Start("tok-1", user)
	return &models.LoginResult{AccessToken: "tok-1", User: user}, nil
}

func (b *authBackend) Me(context.Context) (*models.User, error) {
	u, _ := b.session.User()
	return &u, nil
}

func (b *authBackend) Logout() {
	b.session.Clear()
}

type countingScreen struct {
	calls int
}

func (s *countingScreen) Invalidate() { s.calls++ }

func authEngine(b *authBackend, screen *countingScreen) *gin.Engine {
	h := NewAuthHandler(auth.NewService(b, b.session, nil), []Invalidator{screen}, nil)
	return setupEngine("/api/auth", func(g *gin.RouterGroup) {
		h.RegisterPublic(g)
		h.RegisterPrivate(g)
	})
}

func TestAuthLogin(t *testing.T) {
	tests := []struct {
		name        string
		body        auth.Form
		backendErr  error
		wantStatus  int
		wantMessage string
	}{
		{"Valid", auth.Form{Email: "carlos@biogeles.com", Password: "password123"}, nil, http.StatusOK, ""},
		{"Invalid form", auth.Form{Email: "carlos@", Password: "123"}, nil, http.StatusBadRequest, msgIncompleteForm},
		{"Wrong credentials", auth.Form{Email: "carlos@biogeles.com", Password: "password123"}, &backend.APIError{StatusCode: http.StatusUnauthorized}, http.StatusUnauthorized, "Correo o contraseña incorrectos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &authBackend{session: backend.NewSession(), err: tt.backendErr}
			screen := &countingScreen{}
			r := authEngine(b, screen)

			w := doJSON(t, r, http.MethodPost, "/api/auth/login", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				status := decode[auth.Status](t, w)
				assert.True(t, status.Autenticado)
				assert.Equal(t, 1, screen.calls)
				return
			}
			body := decode[map[string]any](t, w)
			assert.Equal(t, tt.wantMessage, body["error"])
			assert.Zero(t, screen.calls)
		})
	}
}

func TestAuthLogin_ValidationFields(t *testing.T) {
	b := &authBackend{session: backend.NewSession()}
	r := authEngine(b, &countingScreen{})

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", auth.Form{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Errores map[string]string `json:"errores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "El correo es requerido", body.Errores["email"])
	assert.Equal(t, "La contraseña es requerida", body.Errores["password"])
}

func TestAuthLogoutAndPrefill(t *testing.T) {
	b := &authBackend{session: backend.NewSession()}
	screen := &countingScreen{}
	r := authEngine(b, screen)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", auth.Form{Email: "carlos@biogeles.com", Password: "password123", Recordarme: true})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, b.session.Authenticated())
	assert.Equal(t, 2, screen.calls)

	w = doJSON(t, r, http.MethodGet, "/api/auth/login", nil)
	require.Equal(t, http.StatusOK, w.Code)
	prefill := decode[auth.Prefill](t, w)
	assert.Equal(t, "carlos@biogeles.com", prefill.Email)
	assert.True(t, prefill.Recordarme)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
