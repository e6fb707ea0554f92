package monitoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

// Estado is the localized sector health.
type Estado string

const (
	EstadoOptimo  Estado = "óptimo"
	EstadoAlerta  Estado = "alerta"
	EstadoCritico Estado = "crítico"
)

// Tipo is the localized alert type.
type Tipo string

const (
	TipoClima       Tipo = "clima"
	TipoSistema     Tipo = "sistema"
	TipoAdvertencia Tipo = "advertencia"
)

// Severidad is the localized alert severity.
type Severidad string

const (
	SeveridadBaja    Severidad = "baja"
	SeveridadMedia   Severidad = "media"
	SeveridadAlta    Severidad = "alta"
	SeveridadCritica Severidad = "crítica"
)

var estados = map[models.SectorStatus]Estado{
	models.SectorOptimal:  EstadoOptimo,
	models.SectorAlert:    EstadoAlerta,
	models.SectorCritical: EstadoCritico,
}

var tipos = map[models.AlertType]Tipo{
	models.AlertTypeWeather: TipoClima,
	models.AlertTypeSystem:  TipoSistema,
	models.AlertTypeWarning: TipoAdvertencia,
}

var severidades = map[models.Severity]Severidad{
	models.SeverityLow:      SeveridadBaja,
	models.SeverityMedium:   SeveridadMedia,
	models.SeverityHigh:     SeveridadAlta,
	models.SeverityCritical: SeveridadCritica,
}

// Sector is the presentation form of a monitored sector.
type Sector struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Temperatura float64 `json:"temperatura"`
	Humedad     float64 `json:"humedad"`
	Salinidad   float64 `json:"salinidad"`
	Ph          float64 `json:"ph"`
	Estado      Estado  `json:"estado"`
	Alerta      string  `json:"alerta,omitempty"`
	Ubicacion   string  `json:"ubicación"`
}

// Alerta is the presentation form of a monitoring alert.
type Alerta struct {
	ID          string    `json:"id"`
	Tipo        Tipo      `json:"tipo"`
	Titulo      string    `json:"titulo"`
	Descripcion string    `json:"descripción"`
	Severidad   Severidad `json:"severidad"`
	Sector      string    `json:"sector"`
	Hora        string    `json:"hora"`
}

// Critical reports whether the alert counts toward the critical badge.
func (a Alerta) Critical() bool {
	return a.Severidad == SeveridadAlta || a.Severidad == SeveridadCritica
}

// Lectura is one point of the temperature trend chart.
type Lectura struct {
	Hora string  `json:"hora"`
	Temp float64 `json:"temp"`
	Meta float64 `json:"meta"`
}

// SectorFromAPI maps a backend sector. Unknown states read as óptimo.
func SectorFromAPI(s models.Sector) Sector {
	estado, ok := estados[models.SectorStatus(strings.ToUpper(string(s.Status)))]
	if !ok {
		estado = EstadoOptimo
	}
	return Sector{
		ID:          s.ID.String(),
		Nombre:      s.Name,
		Temperatura: s.Temperature,
		Humedad:     s.Humidity,
		Salinidad:   s.Salinity,
		Ph:          s.PH,
		Estado:      estado,
		Alerta:      s.Alert,
		Ubicacion:   s.Location,
	}
}

// AlertFromAPI maps a backend alert, labelling its age relative to now.
func AlertFromAPI(a models.MonitoringAlert, now time.Time) Alerta {
	tipo, ok := tipos[models.AlertType(strings.ToUpper(string(a.Type)))]
	if !ok {
		tipo = TipoAdvertencia
	}
	sev, ok := severidades[models.Severity(strings.ToUpper(string(a.Severity)))]
	if !ok {
		sev = SeveridadMedia
	}
	return Alerta{
		ID:          a.ID.String(),
		Tipo:        tipo,
		Titulo:      a.Title,
		Descripcion: a.Description,
		Severidad:   sev,
		Sector:      a.Sector,
		Hora:        Ago(a.CreatedAt, now),
	}
}

// Ago renders the age of t ("Hace 30 minutos", "Hace 1 hora", "Hace 3 días").
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Hace un momento"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minuto", "minutos")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hora", "horas")
	default:
		return plural(int(d/(24*time.Hour)), "día", "días")
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "Hace 1 " + one
	}
	return fmt.Sprintf("Hace %d %s", n, many)
}

// readingLabel formats a sample time for the chart axis: hours for short ranges, dates otherwise.
func readingLabel(t time.Time, rng string, loc *time.Location) string {
	t = t.In(loc)
	if strings.HasSuffix(rng, "d") {
		return t.Format("02/01")
	}
	return t.Format("15:04")
}
