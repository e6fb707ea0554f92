package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	cal "github.com/mamadbah2/biogeles/internal/calendar"
	"github.com/mamadbah2/biogeles/internal/config"
	"github.com/mamadbah2/biogeles/internal/domain/models"
	"github.com/mamadbah2/biogeles/internal/metrics"
	"github.com/mamadbah2/biogeles/internal/service/monitoring"
	client "github.com/mamadbah2/biogeles/pkg/clients/whatsapp"
)

const (
	sendTimeout  = 10 * time.Second
	digestWindow = 7
)

// ErrNotConfigured is returned when no WhatsApp credentials or recipients are set.
var ErrNotConfigured = errors.New("whatsapp notifications not configured")

// Source is the backend surface the alert digest reads.
type Source interface {
	ListEvents(ctx context.Context) ([]models.ProductionEvent, error)
	ListAlerts(ctx context.Context) ([]models.MonitoringAlert, error)
	GetSettings(ctx context.Context) (*models.SystemSettings, error)
}

// DigestResult reports what a digest run did.
type DigestResult struct {
	Enviado          bool   `json:"enviado"`
	Motivo           string `json:"motivo,omitempty"`
	Destinos         int    `json:"destinos"`
	Mensaje          string `json:"mensaje,omitempty"`
	EventosConAlerta int    `json:"eventosConAlerta"`
	Criticas         int    `json:"alertasCriticas"`
}

// Service pushes alert digests and ad hoc notes to operators over WhatsApp.
type Service struct {
	cfg    config.WhatsAppConfig
	client client.Client
	source Source
	mapper cal.Mapper
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the notifier. client may be nil when WhatsApp is not configured.
func NewService(cfg config.WhatsAppConfig, c client.Client, source Source, mapper cal.Mapper, logger *zap.Logger) *Service {
	svc := &Service{
		cfg:    cfg,
		client: c,
		source: source,
		mapper: mapper,
		logger: logger,
		now:    time.Now,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// SendOutbound lets an operator push a quick note.
func (s *Service) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		return fmt.Errorf("send outbound note: %w", err)
	}
	return nil
}

// SendDigest sends the alert digest when the notifications toggle is on and
// there is something to report.
func (s *Service) SendDigest(ctx context.Context) (DigestResult, error) {
	if s.client == nil || !s.cfg.Enabled() {
		return DigestResult{}, ErrNotConfigured
	}

	settings, err := s.source.GetSettings(ctx)
	if err != nil {
		return DigestResult{}, fmt.Errorf("load settings: %w", err)
	}
	if !settings.EmailNotifications {
		s.logger.Debug("alert digest skipped, notifications disabled")
		return DigestResult{Motivo: "notificaciones desactivadas"}, nil
	}

	records, err := s.source.ListEvents(ctx)
	if err != nil {
		return DigestResult{}, fmt.Errorf("load events: %w", err)
	}
	alerts, err := s.source.ListAlerts(ctx)
	if err != nil {
		return DigestResult{}, fmt.Errorf("load alerts: %w", err)
	}

	events := make([]cal.Event, 0, len(records))
	for _, rec := range records {
		ev, err := s.mapper.FromAPI(rec)
		if err != nil {
			s.logger.Warn("skip unreadable event in digest", zap.Stringer("event_id", rec.ID), zap.Error(err))
			continue
		}
		events = append(events, ev)
	}

	d := BuildDigest(events, alerts, s.now().In(s.mapper.Location()))
	res := DigestResult{EventosConAlerta: len(d.Events), Criticas: len(d.Alerts)}
	if d.Empty() {
		res.Motivo = "sin alertas"
		return res, nil
	}
	res.Mensaje = d.Text()

	recipients := s.recipients()
	var errs []error
	for _, to := range recipients {
		if err := s.SendOutbound(ctx, models.OutboundMessageRequest{To: to, Message: res.Mensaje}); err != nil {
			s.logger.Error("alert digest delivery failed", zap.String("to", to), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		res.Destinos++
	}
	if res.Destinos > 0 {
		res.Enviado = true
		metrics.AlertDigestsSent.Inc()
		s.logger.Info("alert digest sent", zap.Int("recipients", res.Destinos), zap.Int("events", res.EventosConAlerta), zap.Int("alerts", res.Criticas))
	}
	return res, errors.Join(errs...)
}

func (s *Service) recipients() []string {
	var out []string
	for _, to := range strings.Split(s.cfg.AlertsTo, ",") {
		if to = strings.TrimSpace(to); to != "" {
			out = append(out, to)
		}
	}
	return out
}

// Digest groups what the alert message reports.
type Digest struct {
	Day    time.Time
	Events []cal.Event
	Alerts []models.MonitoringAlert
}

// BuildDigest keeps events with an alert in the coming week and monitoring alerts of high or critical severity.
func BuildDigest(events []cal.Event, alerts []models.MonitoringAlert, now time.Time) Digest {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	limit := today.AddDate(0, 0, digestWindow)

	d := Digest{Day: today}
	for _, ev := range cal.Upcoming(events, now, 0) {
		if !ev.Start.Before(limit) {
			break
		}
		if ev.HasAlert() {
			d.Events = append(d.Events, ev)
		}
	}
	for _, a := range alerts {
		if monitoring.AlertFromAPI(a, now).Critical() {
			d.Alerts = append(d.Alerts, a)
		}
	}
	return d
}

// Empty reports whether there is nothing to send.
func (d Digest) Empty() bool {
	return len(d.Events) == 0 && len(d.Alerts) == 0
}

// Text renders the WhatsApp message body.
func (d Digest) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Alertas de producción* - %s\n", d.Day.Format("02/01/2006"))

	if len(d.Events) > 0 {
		b.WriteString("\nEventos con alerta (próximos 7 días):\n")
		for _, ev := range d.Events {
			fmt.Fprintf(&b, "• %s: %s (%s) - %s\n", cal.DayLabel(ev.Dia, ev.Mes), ev.Detalles, ev.Etapa.Label(), ev.Alerta)
		}
	}
	if len(d.Alerts) > 0 {
		b.WriteString("\nAlertas de monitoreo:\n")
		for _, a := range d.Alerts {
			sev := monitoring.AlertFromAPI(a, d.Day).Severidad
			line := fmt.Sprintf("• [%s] %s", strings.ToUpper(string(sev)), a.Title)
			if a.Sector != "" {
				line += " - " + a.Sector
			}
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
