package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cal "github.com/mamadbah2/biogeles/internal/calendar"
	"github.com/mamadbah2/biogeles/internal/config"
	"github.com/mamadbah2/biogeles/internal/domain/models"
	client "github.com/mamadbah2/biogeles/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.SendTextMessageRequest
	fail map[string]bool
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	if f.fail[req.To] {
		return nil, errors.New("boom")
	}
	f.sent = append(f.sent, req)
	return &client.SendTextMessageResponse{}, nil
}

type fakeSource struct {
	events   []models.ProductionEvent
	alerts   []models.MonitoringAlert
	settings models.SystemSettings
}

func (f *fakeSource) ListEvents(context.Context) ([]models.ProductionEvent, error) {
	return f.events, nil
}
func (f *fakeSource) ListAlerts(context.Context) ([]models.MonitoringAlert, error) {
	return f.alerts, nil
}
func (f *fakeSource) GetSettings(context.Context) (*models.SystemSettings, error) {
	return &f.settings, nil
}

var now = time.Date(2024, 11, 12, 7, 0, 0, 0, time.UTC)

var enabledCfg = config.WhatsAppConfig{AccessToken: "tok", PhoneNumberID: "1", AlertsTo: "51911, 51922"}

func sampleSource() *fakeSource {
	return &fakeSource{
		settings: models.SystemSettings{EmailNotifications: true},
		events: []models.ProductionEvent{
			{ID: "past", StartDate: "2024-11-08T00:00:00Z", Title: "Revisión pasada", AlertLevel: models.AlertHigh},
			{ID: "soon", StartDate: "2024-11-14T00:00:00Z", Title: "Revisión Químicos", Type: models.EventGrowth, AlertLevel: models.AlertHigh},
			{ID: "quiet", StartDate: "2024-11-15T00:00:00Z", Title: "Secado", AlertLevel: models.AlertNone},
			{ID: "far", StartDate: "2024-11-30T00:00:00Z", Title: "Cosecha lejana", AlertLevel: models.AlertMedium},
			{ID: "broken", StartDate: "??"},
		},
		alerts: []models.MonitoringAlert{
			{ID: "a1", Title: "Mantenimiento de Bomba", Severity: models.SeverityMedium},
			{ID: "a2", Title: "Salinidad Anómala", Severity: models.SeverityCritical, Sector: "Sector C"},
		},
	}
}

func newService(cfg config.WhatsAppConfig, c client.Client, src Source) *Service {
	s := NewService(cfg, c, src, cal.NewMapper(time.UTC), nil)
	s.now = func() time.Time { return now }
	return s
}

func TestSendDigest(t *testing.T) {
	fc := &fakeClient{}
	s := newService(enabledCfg, fc, sampleSource())

	res, err := s.SendDigest(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Enviado)
	assert.Equal(t, 2, res.Destinos)
	assert.Equal(t, 1, res.EventosConAlerta)
	assert.Equal(t, 1, res.Criticas)

	require.Len(t, fc.sent, 2)
	assert.Equal(t, "51911", fc.sent[0].To)
	assert.Equal(t, "51922", fc.sent[1].To)

	want := "*Alertas de producción* - 12/11/2024\n" +
		"\nEventos con alerta (próximos 7 días):\n" +
		"• Día 14 de Noviembre: Revisión Químicos (Crecimiento) - Alerta alta\n" +
		"\nAlertas de monitoreo:\n" +
		"• [CRÍTICA] Salinidad Anómala - Sector C"
	assert.Equal(t, want, fc.sent[0].Body)
}

func TestSendDigest_DisabledBySettings(t *testing.T) {
	src := sampleSource()
	src.settings.EmailNotifications = false
	fc := &fakeClient{}

	res, err := newService(enabledCfg, fc, src).SendDigest(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Enviado)
	assert.Equal(t, "notificaciones desactivadas", res.Motivo)
	assert.Empty(t, fc.sent)
}

func TestSendDigest_NothingToReport(t *testing.T) {
	src := &fakeSource{settings: models.SystemSettings{EmailNotifications: true}}
	fc := &fakeClient{}

	res, err := newService(enabledCfg, fc, src).SendDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sin alertas", res.Motivo)
	assert.Empty(t, fc.sent)
}

func TestSendDigest_PartialFailure(t *testing.T) {
	fc := &fakeClient{fail: map[string]bool{"51922": true}}

	res, err := newService(enabledCfg, fc, sampleSource()).SendDigest(context.Background())
	require.Error(t, err)
	assert.True(t, res.Enviado)
	assert.Equal(t, 1, res.Destinos)
}

func TestSendDigest_NotConfigured(t *testing.T) {
	_, err := newService(config.WhatsAppConfig{}, &fakeClient{}, sampleSource()).SendDigest(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = newService(enabledCfg, nil, sampleSource()).SendOutbound(context.Background(), models.OutboundMessageRequest{To: "1", Message: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
