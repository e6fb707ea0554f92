package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cal "github.com/mamadbah2/biogeles/internal/calendar"
	"github.com/mamadbah2/biogeles/internal/config"
	"github.com/mamadbah2/biogeles/internal/domain/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*APIClient, *Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	session := NewSession()
	client := NewClient(config.BackendConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, session, nil)
	return client, session
}

func TestListEvents_SendsBearerToken(t *testing.T) {
	var gotAuth string
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/production/events", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","title":"Cosecha Lote A","startDate":"2024-11-12T00:00:00Z","type":"HARVEST","alertLevel":"NONE"}]`))
	})
	session.Start("tok-123", models.User{Email: "carlos.rivera@algas.com"})

	events, err := client.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, models.EventHarvest, events[0].Type)
}

func TestNoTokenNoHeader(t *testing.T) {
	var hadHeader bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadHeader = r.Header["Authorization"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListOrders(context.Background())
	require.NoError(t, err)
	assert.False(t, hadHeader)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	calls := 0
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	})
	session.Start("stale", models.User{})

	_, err := client.ListEvents(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, session.Authenticated())
	assert.Equal(t, 1, calls, "401 must not be retried")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "token expired", apiErr.Message)
}

func TestNotFoundAndServerErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"no such event"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.DeleteEvent(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.ListSpecies(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(config.BackendConfig{BaseURL: url, Timeout: time.Second}, nil, nil)
	_, err := client.ListEvents(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestListEvents_NumericIDs(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"type":"HARVEST","startDate":"2024-11-12T00:00:00Z","alertLevel":"NONE","title":"Cosecha Lote A"},{"id":"ev-2","type":"SEEDING","startDate":"2024-11-03T00:00:00Z","alertLevel":"LOW","title":"Siembra Lote C"}]`))
	})

	events, err := client.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.ID("1"), events[0].ID)
	assert.Equal(t, models.ID("ev-2"), events[1].ID)

	ev, err := cal.NewMapper(time.UTC).FromAPI(events[0])
	require.NoError(t, err)
	assert.Equal(t, "1", ev.ID)
	assert.Equal(t, 10, ev.Mes)
	assert.Equal(t, 12, ev.Dia)
	assert.Equal(t, "Cosecha Lote A", ev.Detalles)
}

func TestUndecodableBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Wrong id type", `[{"id":true,"type":"HARVEST"}]`},
		{"Truncated JSON", `[{"id":"1",`},
		{"Object instead of list", `{"events":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.ListEvents(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidResponse)
			assert.NotErrorIs(t, err, ErrTransport)
		})
	}
}

func TestItemIDsAreEscaped(t *testing.T) {
	var paths, queries []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	require.NoError(t, client.DeleteOrder(context.Background(), "#PED-001"))
	_, err := client.SectorReadings(context.Background(), "sector a/b", "24h")
	require.NoError(t, err)

	assert.Equal(t, []string{"/orders/%23PED-001", "/sectors/sector%20a%2Fb/readings"}, paths)
	assert.Equal(t, "range=24h", queries[1])
}

func TestCreateAndUpdateEvent(t *testing.T) {
	var received []models.ProductionEvent
	var methods, paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body models.ProductionEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received = append(received, body)
		methods = append(methods, r.Method)
		paths = append(paths, r.URL.Path)

		body.ID = "ev-9"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})

	in := models.ProductionEvent{Title: "Siembra Lote C", Description: "Siembra Lote C", StartDate: "2024-11-03T00:00:00.000Z", EndDate: "2024-11-03T23:59:59.000Z", Type: models.EventSeeding, AlertLevel: models.AlertNone}
	created, err := client.CreateEvent(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.ID("ev-9"), created.ID)

	_, err = client.UpdateEvent(context.Background(), "ev-9", in)
	require.NoError(t, err)

	assert.Equal(t, []string{http.MethodPost, http.MethodPatch}, methods)
	assert.Equal(t, []string{"/production/events", "/production/events/ev-9"}, paths)
	assert.Equal(t, models.AlertNone, received[0].AlertLevel)
}

func TestLoginStartsSession(t *testing.T) {
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "maria.lopez@algas.com", creds.Email)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"fresh","user":{"id":"USR-002","name":"María López","role":"OPERATOR","status":"ACTIVE"}}`))
	})

	res, err := client.Login(context.Background(), models.Credentials{Email: "maria.lopez@algas.com", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.AccessToken)
	assert.Equal(t, "fresh", session.Token())

	user, ok := session.User()
	require.True(t, ok)
	assert.Equal(t, models.ID("USR-002"), user.ID)

	client.Logout()
	assert.False(t, session.Authenticated())
}

func TestSessionRememberSurvivesClear(t *testing.T) {
	s := NewSession()
	s.Remember("carlos.rivera@algas.com")
	s.Start("t", models.User{})
	s.Clear()
	assert.Equal(t, "carlos.rivera@algas.com", s.RememberedEmail())
	assert.False(t, s.Authenticated())
}
