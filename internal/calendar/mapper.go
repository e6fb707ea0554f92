package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

var (
	// ErrUnparseableDate indicates the backend sent a missing or malformed timestamp.
	ErrUnparseableDate = errors.New("unparseable event date")
	// ErrMonthOutOfRange indicates a month index outside 0..11.
	ErrMonthOutOfRange = errors.New("month index out of range")
	// ErrDayOutOfRange indicates a day that does not exist in the requested month.
	ErrDayOutOfRange = errors.New("day out of range for month")
	// ErrUnknownStage indicates a stage tag with no backend code.
	ErrUnknownStage = errors.New("unknown production stage")
)

const wireLayout = "2006-01-02T15:04:05.000Z"

// Stage is the localized production stage tag.
type Stage string

const (
	StageSeeding    Stage = "siembra"
	StageGrowth     Stage = "crecimiento"
	StageHarvest    Stage = "cosecha"
	StageProcessing Stage = "procesamiento"
)

var stageFromType = map[models.EventType]Stage{
	models.EventSeeding:     StageSeeding,
	models.EventGrowth:      StageGrowth,
	models.EventHarvest:     StageHarvest,
	models.EventProcessing:  StageProcessing,
	models.EventMaintenance: StageGrowth,
}

var typeFromStage = map[Stage]models.EventType{
	StageSeeding:    models.EventSeeding,
	StageGrowth:     models.EventGrowth,
	StageHarvest:    models.EventHarvest,
	StageProcessing: models.EventProcessing,
}

var alertPhrases = map[models.AlertLevel]string{
	models.AlertLow:    "Alerta baja",
	models.AlertMedium: "Alerta media",
	models.AlertHigh:   "Alerta alta",
}

// Valid reports whether the stage has a backend code.
func (s Stage) Valid() bool {
	_, ok := typeFromStage[s]
	return ok
}

// Event is the presentation form of a production event. Dia, Mes and Anio are
// always derived from the backend start timestamp.
type Event struct {
	ID       string    `json:"id"`
	Dia      int       `json:"dia"`
	Mes      int       `json:"mes"`
	Anio     int       `json:"anio"`
	Etapa    Stage     `json:"etapa"`
	Detalles string    `json:"detalles"`
	Alerta   string    `json:"alerta,omitempty"`
	Start    time.Time `json:"-"`

	source models.EventType
}

// HasAlert reports whether an alert banner should be rendered.
func (e Event) HasAlert() bool {
	return e.Alerta != ""
}

// Fields returns the editable part of the event, remembering the backend code it was read from.
func (e Event) Fields() Fields {
	return Fields{Etapa: e.Etapa, Detalles: e.Detalles, origin: e.source}
}

// Fields are the user-editable attributes of an event.
type Fields struct {
	Etapa    Stage  `json:"etapa"`
	Detalles string `json:"detalles"`

	origin models.EventType
}

// Mapper translates between backend records and presentation events in a fixed time zone.
type Mapper struct {
	loc *time.Location
}

// NewMapper builds a mapper for the provided location; nil means UTC.
func NewMapper(loc *time.Location) Mapper {
	if loc == nil {
		loc = time.UTC
	}
	return Mapper{loc: loc}
}

// Location returns the time zone used to derive calendar days.
func (m Mapper) Location() *time.Location {
	if m.loc == nil {
		return time.UTC
	}
	return m.loc
}

// FromAPI converts a backend record into its presentation form.
func (m Mapper) FromAPI(rec models.ProductionEvent) (Event, error) {
	start, err := parseTimestamp(rec.StartDate, m.Location())
	if err != nil {
		return Event{}, fmt.Errorf("event %s: %w", rec.ID, err)
	}
	local := start.In(m.Location())

	code := models.EventType(strings.ToUpper(strings.TrimSpace(string(rec.Type))))
	stage, ok := stageFromType[code]
	if !ok {
		stage = StageSeeding
		code = models.EventSeeding
	}

	details := rec.Title
	if strings.TrimSpace(details) == "" {
		details = rec.Description
	}

	return Event{
		ID:       rec.ID.String(),
		Dia:      local.Day(),
		Mes:      int(local.Month()) - 1,
		Anio:     local.Year(),
		Etapa:    stage,
		Detalles: details,
		Alerta:   alertText(rec.AlertLevel),
		Start:    local,
		source:   code,
	}, nil
}

// ToAPI builds the backend record for an event on the given local day.
// The alert level is never written by this client.
func (m Mapper) ToAPI(f Fields, day, month, year int) (models.ProductionEvent, error) {
	if month < 0 || month > 11 {
		return models.ProductionEvent{}, fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	if day < 1 || day > DaysIn(month, year) {
		return models.ProductionEvent{}, fmt.Errorf("%w: %d/%d/%d", ErrDayOutOfRange, day, month+1, year)
	}

	code, ok := typeFromStage[f.Etapa]
	if !ok {
		return models.ProductionEvent{}, fmt.Errorf("%w: %q", ErrUnknownStage, f.Etapa)
	}
	if f.origin == models.EventMaintenance && f.Etapa == StageGrowth {
		code = models.EventMaintenance
	}

	loc := m.Location()
	start := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, loc)
	end := time.Date(year, time.Month(month+1), day, 23, 59, 59, 0, loc)

	return models.ProductionEvent{
		Title:       f.Detalles,
		Description: f.Detalles,
		StartDate:   start.UTC().Format(wireLayout),
		EndDate:     end.UTC().Format(wireLayout),
		Type:        code,
		AlertLevel:  models.AlertNone,
	}, nil
}

func alertText(level models.AlertLevel) string {
	code := models.AlertLevel(strings.ToUpper(strings.TrimSpace(string(level))))
	if code == "" || code == models.AlertNone {
		return ""
	}
	if phrase, ok := alertPhrases[code]; ok {
		return phrase
	}
	return string(level)
}

// Layouts carrying their own offset. time.Parse accepts fractional seconds
// after the seconds field in all of them.
var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
}

// Layouts without an offset are read as local wall time.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrUnparseableDate
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	// Date-only values are UTC midnight, as browsers read them.
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, value)
}
