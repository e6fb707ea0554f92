package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/domain/models"
	"github.com/mamadbah2/biogeles/internal/metrics"
)

const (
	speciesRange     = "Produccion!A:D"
	speciesDays      = "Produccion!A:A"
	performanceRange = "Rendimiento!A:D"
	performanceDays  = "Rendimiento!A:A"
	dayLayout        = "2006-01-02"
)

// SheetWriter appends report rows to the shared spreadsheet.
type SheetWriter interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// SnapshotStore archives exported reports.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap models.ReportSnapshot) error
	LatestSnapshot(ctx context.Context) (*models.ReportSnapshot, error)
}

// ErrArchiveDisabled is returned when no snapshot store is configured.
var ErrArchiveDisabled = errors.New("report archive not configured")

// Exporter pushes the report series to the optional spreadsheet and archive.
type Exporter struct {
	source  Source
	sheet   SheetWriter
	archive SnapshotStore
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

// NewExporter wires an exporter; sheet and archive may be nil.
func NewExporter(source Source, sheet SheetWriter, archive SnapshotStore, loc *time.Location, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Exporter{source: source, sheet: sheet, archive: archive, loc: loc, logger: logger, now: time.Now}
}

// Snapshot collects the current series into an archivable snapshot.
func (e *Exporter) Snapshot(ctx context.Context, origin string) (models.ReportSnapshot, error) {
	species, err := e.source.ProductionBySpecies(ctx)
	if err != nil {
		return models.ReportSnapshot{}, fmt.Errorf("load production by species: %w", err)
	}
	perf, err := e.source.Performance(ctx)
	if err != nil {
		return models.ReportSnapshot{}, fmt.Errorf("load performance: %w", err)
	}
	orderRecs, err := e.source.ListOrders(ctx)
	if err != nil {
		return models.ReportSnapshot{}, fmt.Errorf("load orders: %w", err)
	}

	snap := models.ReportSnapshot{
		GeneratedAt:        e.now().In(e.loc),
		Source:             origin,
		ProductionBySpecie: species,
		Performance:        perf,
	}
	for _, sp := range species {
		snap.TotalProduction += sp.Value
	}
	for _, o := range orderRecs {
		if o.Status != models.OrderCompleted {
			snap.ActiveOrders++
		}
	}
	return snap, nil
}

// Export writes the snapshot to every configured target. A day already present
// in the spreadsheet is not appended twice.
func (e *Exporter) Export(ctx context.Context, origin string) (models.ReportSnapshot, error) {
	snap, err := e.Snapshot(ctx, origin)
	if err != nil {
		return models.ReportSnapshot{}, err
	}

	var errs []error
	if e.sheet != nil {
		if err := e.exportSheet(ctx, snap); err != nil {
			errs = append(errs, err)
		} else {
			metrics.ReportExports.WithLabelValues("sheets").Inc()
		}
	}
	if e.archive != nil {
		if err := e.archive.SaveSnapshot(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("archive snapshot: %w", err))
		} else {
			metrics.ReportExports.WithLabelValues("mongodb").Inc()
		}
	}

	if err := errors.Join(errs...); err != nil {
		e.logger.Error("report export incomplete", zap.String("source", origin), zap.Error(err))
		return snap, err
	}
	e.logger.Info("report exported",
		zap.String("source", origin),
		zap.Float64("total_kg", snap.TotalProduction),
		zap.Int("active_orders", snap.ActiveOrders),
	)
	return snap, nil
}

// Latest returns the last archived snapshot.
func (e *Exporter) Latest(ctx context.Context) (*models.ReportSnapshot, error) {
	if e.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return e.archive.LatestSnapshot(ctx)
}

// exportSheet appends the day's rows to each tab that does not hold them
// yet, so a retry after a partial failure fills only the missing tab.
func (e *Exporter) exportSheet(ctx context.Context, snap models.ReportSnapshot) error {
	day := snap.GeneratedAt.Format(dayLayout)

	rep := BuildReport(snap.ProductionBySpecie, snap.Performance)
	speciesRows := make([][]interface{}, 0, len(rep.Especies))
	for _, sp := range rep.Especies {
		speciesRows = append(speciesRows, []interface{}{day, sp.Nombre, sp.Valor, sp.Porcentaje})
	}
	perfRows := make([][]interface{}, 0, len(rep.Rendimiento))
	for _, p := range rep.Rendimiento {
		perfRows = append(perfRows, []interface{}{day, p.Mes, p.Meta, p.Real})
	}

	if err := e.appendOnce(ctx, day, speciesDays, speciesRange, speciesRows); err != nil {
		return fmt.Errorf("export production sheet: %w", err)
	}
	if err := e.appendOnce(ctx, day, performanceDays, performanceRange, perfRows); err != nil {
		return fmt.Errorf("export performance sheet: %w", err)
	}
	return nil
}

func (e *Exporter) appendOnce(ctx context.Context, day, daysRange, target string, rows [][]interface{}) error {
	existing, err := e.sheet.ReadRange(ctx, daysRange)
	if err != nil {
		return fmt.Errorf("read exported days: %w", err)
	}
	for _, row := range existing {
		if len(row) > 0 && fmt.Sprint(row[0]) == day {
			e.logger.Debug("rows already exported for day", zap.String("range", target), zap.String("day", day))
			return nil
		}
	}
	return e.sheet.AppendRows(ctx, target, rows)
}
