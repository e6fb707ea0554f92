package reporting

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	cal "github.com/mamadbah2/biogeles/internal/calendar"
	"github.com/mamadbah2/biogeles/internal/domain/models"
	"github.com/mamadbah2/biogeles/internal/service/orders"
)

const recentOrdersLimit = 3

// Source is the backend surface the reports and the dashboard read from.
type Source interface {
	ProductionBySpecies(ctx context.Context) ([]models.SpeciesProduction, error)
	Performance(ctx context.Context) ([]models.MonthlyPerformance, error)
	MonthlyProduction(ctx context.Context) ([]models.MonthlyProduction, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListSectors(ctx context.Context) ([]models.Sector, error)
	ListAlerts(ctx context.Context) ([]models.MonitoringAlert, error)
}

// EspecieProduccion is one slice of the production-by-species chart.
type EspecieProduccion struct {
	Nombre     string  `json:"nombre"`
	Valor      float64 `json:"valor"`
	Porcentaje int     `json:"porcentaje"`
}

// Rendimiento is one point of the performance vs target chart.
type Rendimiento struct {
	Mes  string  `json:"mes"`
	Meta float64 `json:"meta"`
	Real float64 `json:"real"`
}

// ProduccionMensual is one point of the dashboard production chart.
type ProduccionMensual struct {
	Mes        string  `json:"mes"`
	Produccion float64 `json:"producción"`
	Meta       float64 `json:"meta"`
}

// Metricas are the key figures under the report charts.
type Metricas struct {
	ProduccionTotal    float64 `json:"produccionTotal"`
	EtiquetaProduccion string  `json:"etiquetaProduccion"`
	Eficiencia         float64 `json:"eficiencia"`
	Cumplimiento       float64 `json:"cumplimiento"`
}

// Report is the reports screen.
type Report struct {
	Especies    []EspecieProduccion `json:"produccionPorEspecie"`
	Rendimiento []Rendimiento       `json:"rendimiento"`
	Metricas    Metricas            `json:"metricas"`
}

// PedidoReciente is a row of the dashboard's latest orders.
type PedidoReciente struct {
	ID      string `json:"id"`
	Cliente string `json:"cliente"`
	Estado  string `json:"estado"`
	Fecha   string `json:"fecha"`
}

// Dashboard is the landing screen.
type Dashboard struct {
	PedidosActivos      int                 `json:"pedidosActivos"`
	PedidosSemana       int                 `json:"pedidosSemana"`
	EtiquetaSemana      string              `json:"etiquetaSemana"`
	TemperaturaPromedio float64             `json:"temperaturaPromedio"`
	Alertas             int                 `json:"alertas"`
	Produccion          []ProduccionMensual `json:"produccion"`
	UltimosPedidos      []PedidoReciente    `json:"ultimosPedidos"`
}

// Service assembles the reports and the dashboard.
type Service struct {
	source Source
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the reporting service. A nil location means UTC.
func NewService(source Source, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{source: source, loc: loc, logger: logger, now: time.Now}
}

// Report fetches the series of the reports screen.
func (s *Service) Report(ctx context.Context) (Report, error) {
	species, err := s.source.ProductionBySpecies(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load production by species: %w", err)
	}
	perf, err := s.source.Performance(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load performance: %w", err)
	}
	return BuildReport(species, perf), nil
}

// BuildReport computes the localized report from the raw series.
func BuildReport(species []models.SpeciesProduction, perf []models.MonthlyPerformance) Report {
	total := 0.0
	for _, sp := range species {
		total += sp.Value
	}

	out := Report{
		Especies:    make([]EspecieProduccion, 0, len(species)),
		Rendimiento: make([]Rendimiento, 0, len(perf)),
	}
	for _, sp := range species {
		out.Especies = append(out.Especies, EspecieProduccion{
			Nombre:     sp.Species,
			Valor:      sp.Value,
			Porcentaje: percent(sp.Value, total),
		})
	}
	sort.SliceStable(out.Especies, func(i, j int) bool { return out.Especies[i].Valor > out.Especies[j].Valor })

	var ratioSum float64
	var counted, met int
	for _, p := range perf {
		out.Rendimiento = append(out.Rendimiento, Rendimiento{Mes: cal.MonthName(p.Month - 1), Meta: p.Target, Real: p.Actual})
		if p.Target <= 0 {
			continue
		}
		ratioSum += p.Actual / p.Target
		counted++
		if p.Actual >= p.Target {
			met++
		}
	}

	out.Metricas.ProduccionTotal = total
	out.Metricas.EtiquetaProduccion = KgLabel(total)
	if counted > 0 {
		out.Metricas.Eficiencia = round1(ratioSum / float64(counted) * 100)
		out.Metricas.Cumplimiento = round1(float64(met) / float64(counted) * 100)
	}
	return out
}

// Dashboard fetches and assembles the landing screen.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	orderRecs, err := s.source.ListOrders(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load orders: %w", err)
	}
	production, err := s.source.MonthlyProduction(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load monthly production: %w", err)
	}
	sectors, err := s.source.ListSectors(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load sectors: %w", err)
	}
	alerts, err := s.source.ListAlerts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load alerts: %w", err)
	}
	return BuildDashboard(orderRecs, production, sectors, alerts, s.now().In(s.loc)), nil
}

// BuildDashboard computes the landing screen from the raw records.
func BuildDashboard(orderRecs []models.Order, production []models.MonthlyProduction, sectors []models.Sector, alerts []models.MonitoringAlert, now time.Time) Dashboard {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -7)

	d := Dashboard{
		Produccion:     make([]ProduccionMensual, 0, len(production)),
		UltimosPedidos: make([]PedidoReciente, 0, recentOrdersLimit),
		Alertas:        len(alerts),
	}

	type dated struct {
		order orders.Order
		at    time.Time
	}
	recent := make([]dated, 0, len(orderRecs))
	for _, rec := range orderRecs {
		o := orders.FromAPI(rec)
		at := parseDay(rec.OrderDate, now.Location())
		if o.Estado != orders.EstadoCompletado {
			d.PedidosActivos++
		}
		if !at.IsZero() && !at.Before(weekAgo) {
			d.PedidosSemana++
		}
		recent = append(recent, dated{order: o, at: at})
	}
	d.EtiquetaSemana = fmt.Sprintf("+%d esta semana", d.PedidosSemana)

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].at.After(recent[j].at) })
	for i := 0; i < len(recent) && i < recentOrdersLimit; i++ {
		d.UltimosPedidos = append(d.UltimosPedidos, PedidoReciente{
			ID:      recent[i].order.ID,
			Cliente: recent[i].order.Cliente,
			Estado:  recent[i].order.EstadoLabel,
			Fecha:   dayAge(recent[i].at, today),
		})
	}

	for _, p := range production {
		d.Produccion = append(d.Produccion, ProduccionMensual{Mes: cal.ShortMonthName(p.Month - 1), Produccion: p.Production, Meta: p.Target})
	}

	if len(sectors) > 0 {
		sum := 0.0
		for _, sec := range sectors {
			sum += sec.Temperature
		}
		d.TemperaturaPromedio = round1(sum / float64(len(sectors)))
	}
	return d
}

// KgLabel renders a production total ("10K kg", "4.2K kg", "850 kg").
func KgLabel(kg float64) string {
	if kg >= 1000 {
		return strconv.FormatFloat(round1(kg/1000), 'f', -1, 64) + "K kg"
	}
	return strconv.FormatFloat(round1(kg), 'f', -1, 64) + " kg"
}

func dayAge(at, today time.Time) string {
	if at.IsZero() {
		return ""
	}
	days := int(today.Sub(at).Hours() / 24)
	switch {
	case days <= 0:
		return "Hoy"
	case days == 1:
		return "Ayer"
	default:
		return fmt.Sprintf("%d días", days)
	}
}

func parseDay(value string, loc *time.Location) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t
	}
	return time.Time{}
}

func percent(v, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(v / total * 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
