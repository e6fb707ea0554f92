package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	cal "github.com/mamadbah2/biogeles/internal/calendar"
	"github.com/mamadbah2/biogeles/internal/domain/models"
	"github.com/mamadbah2/biogeles/internal/metrics"
)

const upcomingLimit = 5

var (
	// ErrEventNotFound indicates the id is not part of the loaded events.
	ErrEventNotFound = errors.New("event not found")
	// ErrValidation indicates the event form was rejected before any request was sent.
	ErrValidation = errors.New("invalid event form")
	// ErrDataIntegrity indicates the backend returned a record that cannot be displayed.
	ErrDataIntegrity = errors.New("backend returned an unreadable event")
)

// EventStore is the backend surface the calendar needs.
type EventStore interface {
	ListEvents(ctx context.Context) ([]models.ProductionEvent, error)
	CreateEvent(ctx context.Context, ev models.ProductionEvent) (*models.ProductionEvent, error)
	UpdateEvent(ctx context.Context, id string, ev models.ProductionEvent) (*models.ProductionEvent, error)
	DeleteEvent(ctx context.Context, id string) error
}

// Form is the new/edit event form.
type Form struct {
	Dia      int       `json:"dia"`
	Mes      int       `json:"mes"`
	Anio     int       `json:"anio"`
	Etapa    cal.Stage `json:"etapa"`
	Detalles string    `json:"detalles"`
}

// AlertDetail is the alert box of the detail view.
type AlertDetail struct {
	Titulo  string `json:"titulo"`
	Mensaje string `json:"mensaje"`
}

// Detail is the open event detail view.
type Detail struct {
	Evento cal.Event    `json:"evento"`
	Fecha  string       `json:"fecha"`
	Etapa  string       `json:"etapa"`
	Alerta *AlertDetail `json:"alerta,omitempty"`
}

// View is a snapshot of the calendar screen.
type View struct {
	Modo         cal.Mode          `json:"modo"`
	Cursor       cal.Cursor        `json:"cursor"`
	Titulo       string            `json:"titulo"`
	Leyenda      []cal.LegendEntry `json:"leyenda"`
	DiasSemana   [7]string         `json:"diasSemana"`
	Mes          *cal.MonthGrid    `json:"mes,omitempty"`
	Meses        []cal.MonthGrid   `json:"meses,omitempty"`
	Proximos     []cal.Event       `json:"proximos"`
	Seleccionado *Detail           `json:"seleccionado,omitempty"`
}

// Screen owns the in-memory state of the production calendar.
type Screen struct {
	store  EventStore
	mapper cal.Mapper
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	events   []cal.Event
	nav      *cal.Navigator
	selected string
	loaded   bool
}

// NewScreen wires a calendar screen against the event store.
func NewScreen(store EventStore, mapper cal.Mapper, logger *zap.Logger) *Screen {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Screen{
		store:  store,
		mapper: mapper,
		logger: logger,
		now:    time.Now,
	}
	s.nav = cal.NewNavigator(cal.InitialCursor(nil, s.localNow()))
	return s
}

func (s *Screen) localNow() time.Time {
	return s.now().In(s.mapper.Location())
}

// Loaded reports whether the initial fetch has completed.
func (s *Screen) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Invalidate forces the next request to refetch.
func (s *Screen) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.selected = ""
}

// Load fetches every event and anchors the cursor on the first one.
func (s *Screen) Load(ctx context.Context) error {
	records, err := s.store.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	events := make([]cal.Event, 0, len(records))
	for _, rec := range records {
		ev, err := s.mapper.FromAPI(rec)
		if err != nil {
			s.logger.Warn("skip unreadable event", zap.Stringer("event_id", rec.ID), zap.Error(err))
			continue
		}
		events = append(events, ev)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.nav = cal.NewNavigator(cal.InitialCursor(events, s.localNow()))
	s.selected = ""
	s.loaded = true

	s.logger.Debug("calendar loaded", zap.Int("events", len(events)), zap.Int("skipped", len(records)-len(events)))
	return nil
}

// View renders the current state.
func (s *Screen) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Screen) viewLocked() View {
	cursor := s.nav.Cursor()
	v := View{
		Modo:       s.nav.Mode(),
		Cursor:     cursor,
		Leyenda:    cal.Legend,
		DiasSemana: cal.WeekDays,
		Proximos:   cal.Upcoming(s.events, s.localNow(), upcomingLimit),
	}

	if v.Modo == cal.ModeYear {
		v.Titulo = fmt.Sprintf("Vista Anual - %d", cursor.Year)
		v.Meses = cal.BuildYear(cursor.Year, s.events)
	} else {
		v.Titulo = cursor.Label()
		grid := cal.BuildMonth(cursor.Month, cursor.Year, s.events)
		v.Mes = &grid
	}

	if s.selected != "" {
		if ev, ok := s.findLocked(s.selected); ok {
			d := detailOf(ev)
			v.Seleccionado = &d
		}
	}
	return v
}

// Navigate applies a navigation action and returns the new view.
func (s *Screen) Navigate(action cal.Action) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.nav.Apply(action); err != nil {
		return View{}, err
	}
	return s.viewLocked(), nil
}

// SelectMonth opens the month view on a month of the displayed year.
func (s *Screen) SelectMonth(month int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.nav.SelectMonth(month); err != nil {
		return View{}, err
	}
	return s.viewLocked(), nil
}

// Select opens the detail view of an event.
func (s *Screen) Select(id string) (Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.findLocked(id)
	if !ok {
		return Detail{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	s.selected = id
	return detailOf(ev), nil
}

// CloseDetail closes the detail view.
func (s *Screen) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// Create validates the form, persists the event and appends the stored record.
func (s *Screen) Create(ctx context.Context, form Form) (cal.Event, error) {
	rec, err := s.buildRecord(cal.Fields{}, form)
	if err != nil {
		return cal.Event{}, err
	}

	created, err := s.store.CreateEvent(ctx, rec)
	if err != nil {
		return cal.Event{}, fmt.Errorf("create event: %w", err)
	}
	ev, err := s.fromStored(created)
	if err != nil {
		return cal.Event{}, err
	}

	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()

	metrics.CalendarMutations.WithLabelValues("create").Inc()
	s.logger.Info("event created", zap.String("event_id", ev.ID), zap.String("stage", string(ev.Etapa)))
	return ev, nil
}

// Update replaces the stage, details and day of an event with the form values.
func (s *Screen) Update(ctx context.Context, id string, form Form) (cal.Event, error) {
	s.mu.Lock()
	existing, ok := s.findLocked(id)
	s.mu.Unlock()
	if !ok {
		return cal.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	rec, err := s.buildRecord(existing.Fields(), form)
	if err != nil {
		return cal.Event{}, err
	}

	updated, err := s.store.UpdateEvent(ctx, id, rec)
	if err != nil {
		return cal.Event{}, fmt.Errorf("update event %s: %w", id, err)
	}
	ev, err := s.fromStored(updated)
	if err != nil {
		return cal.Event{}, err
	}
	if ev.ID == "" {
		ev.ID = id
	}

	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i] = ev
			break
		}
	}
	s.mu.Unlock()

	metrics.CalendarMutations.WithLabelValues("update").Inc()
	s.logger.Info("event updated", zap.String("event_id", id))
	return ev, nil
}

// Delete removes an event remotely, then locally, closing its detail view if open.
func (s *Screen) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}

	s.mu.Lock()
	kept := s.events[:0]
	for _, ev := range s.events {
		if ev.ID != id {
			kept = append(kept, ev)
		}
	}
	s.events = kept
	if s.selected == id {
		s.selected = ""
	}
	s.mu.Unlock()

	metrics.CalendarMutations.WithLabelValues("delete").Inc()
	s.logger.Info("event deleted", zap.String("event_id", id))
	return nil
}

// Events returns a copy of the loaded events.
func (s *Screen) Events() []cal.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cal.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Screen) buildRecord(fields cal.Fields, form Form) (models.ProductionEvent, error) {
	details := strings.TrimSpace(form.Detalles)
	if details == "" {
		return models.ProductionEvent{}, fmt.Errorf("%w: detalles es requerido", ErrValidation)
	}
	fields.Etapa = form.Etapa
	fields.Detalles = details

	rec, err := s.mapper.ToAPI(fields, form.Dia, form.Mes, form.Anio)
	if err != nil {
		return models.ProductionEvent{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return rec, nil
}

func (s *Screen) fromStored(rec *models.ProductionEvent) (cal.Event, error) {
	if rec == nil {
		return cal.Event{}, ErrDataIntegrity
	}
	ev, err := s.mapper.FromAPI(*rec)
	if err != nil {
		s.logger.Error("backend returned unreadable event", zap.Stringer("event_id", rec.ID), zap.Error(err))
		return cal.Event{}, fmt.Errorf("%w: %w", ErrDataIntegrity, err)
	}
	return ev, nil
}

func (s *Screen) findLocked(id string) (cal.Event, bool) {
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return cal.Event{}, false
}

func detailOf(ev cal.Event) Detail {
	d := Detail{
		Evento: ev,
		Fecha:  fmt.Sprintf("%s %d", cal.DayLabel(ev.Dia, ev.Mes), ev.Anio),
		Etapa:  ev.Etapa.Label(),
	}
	if ev.HasAlert() {
		d.Alerta = &AlertDetail{
			Titulo:  "⚠ Alerta: " + ev.Alerta,
			Mensaje: "Requiere atención especial",
		}
	}
	return d
}
