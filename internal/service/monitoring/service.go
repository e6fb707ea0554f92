package monitoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

// Form defaults of a new sector.
const (
	DefaultTemperature = 18.0
	DefaultHumidity    = 75.0
	DefaultSalinity    = 32.5
	DefaultPH          = 7.2

	DefaultRange = "24h"
)

// Ranges lists the accepted trend windows.
var Ranges = []string{"6h", "12h", "24h", "7d"}

var (
	// ErrValidation indicates the sector form was rejected before any request was sent.
	ErrValidation = errors.New("incomplete sector form")
	// ErrSectorNotFound indicates the id is not part of the loaded sectors.
	ErrSectorNotFound = errors.New("sector not found")
	// ErrUnknownRange indicates a trend window outside Ranges.
	ErrUnknownRange = errors.New("unknown reading range")
)

// Store is the backend surface of the monitoring screen.
type Store interface {
	ListSectors(ctx context.Context) ([]models.Sector, error)
	CreateSector(ctx context.Context, s models.Sector) (*models.Sector, error)
	SectorReadings(ctx context.Context, sectorID, timeRange string) ([]models.SectorReading, error)
	ListAlerts(ctx context.Context) ([]models.MonitoringAlert, error)
}

// SectorForm is the new sector form. Nil readings take the form defaults.
type SectorForm struct {
	Nombre      string   `json:"nombre"`
	Ubicacion   string   `json:"ubicación"`
	Temperatura *float64 `json:"temperatura,omitempty"`
	Humedad     *float64 `json:"humedad,omitempty"`
	Salinidad   *float64 `json:"salinidad,omitempty"`
	Ph          *float64 `json:"ph,omitempty"`
}

// Overview is the monitoring screen snapshot.
type Overview struct {
	SectoresActivos int      `json:"sectoresActivos"`
	AlertasCriticas int      `json:"alertasCriticas"`
	EtiquetaAlertas string   `json:"etiquetaAlertas"`
	Sectores        []Sector `json:"sectores"`
	Seleccionado    *Sector  `json:"seleccionado,omitempty"`
	Alertas         []Alerta `json:"alertas"`
}

// Service owns the state of the monitoring screen.
type Service struct {
	store  Store
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time

	mu       sync.Mutex
	sectors  []Sector
	alerts   []models.MonitoringAlert
	selected string
	loaded   bool
}

// NewService wires the monitoring screen. A nil location means UTC.
func NewService(store Store, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, logger: logger, loc: loc, now: time.Now}
}

// Load fetches sectors and alerts and selects the first sector.
func (s *Service) Load(ctx context.Context) error {
	sectors, err := s.store.ListSectors(ctx)
	if err != nil {
		return fmt.Errorf("load sectors: %w", err)
	}
	alerts, err := s.store.ListAlerts(ctx)
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}

	mapped := make([]Sector, 0, len(sectors))
	for _, sec := range sectors {
		mapped = append(mapped, SectorFromAPI(sec))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sectors = mapped
	s.alerts = alerts
	s.loaded = true
	s.selected = ""
	if len(mapped) > 0 {
		s.selected = mapped[0].ID
	}
	return nil
}

// Loaded reports whether sectors and alerts have been fetched since the last invalidation.
func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Invalidate forces the next request to refetch.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
}

// Overview renders the screen.
func (s *Service) Overview() Overview {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	alerts := make([]Alerta, 0, len(s.alerts))
	critical := 0
	for _, a := range s.alerts {
		al := AlertFromAPI(a, now)
		if al.Critical() {
			critical++
		}
		alerts = append(alerts, al)
	}

	sectors := make([]Sector, len(s.sectors))
	copy(sectors, s.sectors)

	o := Overview{
		SectoresActivos: len(sectors),
		AlertasCriticas: critical,
		EtiquetaAlertas: fmt.Sprintf("%d alertas", len(alerts)),
		Sectores:        sectors,
		Alertas:         alerts,
	}
	for i := range sectors {
		if sectors[i].ID == s.selected {
			sel := sectors[i]
			o.Seleccionado = &sel
			break
		}
	}
	return o
}

// Alerts returns the raw alerts of the last load.
func (s *Service) Alerts() []models.MonitoringAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MonitoringAlert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Select makes a sector the detail sector.
func (s *Service) Select(id string) (Sector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range s.sectors {
		if sec.ID == id {
			s.selected = id
			return sec, nil
		}
	}
	return Sector{}, fmt.Errorf("%w: %s", ErrSectorNotFound, id)
}

// CreateSector validates the form, persists the sector and selects it.
func (s *Service) CreateSector(ctx context.Context, f SectorForm) (Sector, error) {
	name := strings.TrimSpace(f.Nombre)
	location := strings.TrimSpace(f.Ubicacion)
	if name == "" || location == "" {
		return Sector{}, ErrValidation
	}

	rec := models.Sector{
		Name:        name,
		Location:    location,
		Temperature: valueOr(f.Temperatura, DefaultTemperature),
		Humidity:    valueOr(f.Humedad, DefaultHumidity),
		Salinity:    valueOr(f.Salinidad, DefaultSalinity),
		PH:          valueOr(f.Ph, DefaultPH),
		Status:      models.SectorOptimal,
	}

	created, err := s.store.CreateSector(ctx, rec)
	if err != nil {
		return Sector{}, fmt.Errorf("create sector: %w", err)
	}
	sec := SectorFromAPI(*created)

	s.mu.Lock()
	s.sectors = append(s.sectors, sec)
	s.selected = sec.ID
	s.mu.Unlock()

	s.logger.Info("sector created", zap.String("sector_id", sec.ID), zap.String("location", sec.Ubicacion))
	return sec, nil
}

// Readings returns the temperature trend of a sector for one of Ranges ("" means 24h).
func (s *Service) Readings(ctx context.Context, sectorID, rng string) ([]Lectura, error) {
	if rng == "" {
		rng = DefaultRange
	}
	if !validRange(rng) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRange, rng)
	}

	samples, err := s.store.SectorReadings(ctx, sectorID, rng)
	if err != nil {
		return nil, fmt.Errorf("sector %s readings: %w", sectorID, err)
	}
	out := make([]Lectura, 0, len(samples))
	for _, r := range samples {
		out = append(out, Lectura{Hora: readingLabel(r.Timestamp, rng, s.loc), Temp: r.Temperature, Meta: r.Target})
	}
	return out, nil
}

func validRange(rng string) bool {
	for _, r := range Ranges {
		if r == rng {
			return true
		}
	}
	return false
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
