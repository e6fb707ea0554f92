package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

// fakeSheet keeps rows per tab. failOnce makes the next append to that
// range fail.
type fakeSheet struct {
	appended map[string][][]interface{}
	failOnce map[string]error
}

func tabOf(sheetRange string) string {
	tab, _, _ := strings.Cut(sheetRange, "!")
	return tab
}

func (f *fakeSheet) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	if err, ok := f.failOnce[sheetRange]; ok {
		delete(f.failOnce, sheetRange)
		return err
	}
	if f.appended == nil {
		f.appended = make(map[string][][]interface{})
	}
	f.appended[sheetRange] = append(f.appended[sheetRange], rows...)
	return nil
}

func (f *fakeSheet) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	var rows [][]interface{}
	for r, appended := range f.appended {
		if tabOf(r) == tabOf(sheetRange) {
			rows = append(rows, appended...)
		}
	}
	return rows, nil
}

type fakeArchive struct {
	saved []models.ReportSnapshot
	err   error
}

func (f *fakeArchive) SaveSnapshot(_ context.Context, snap models.ReportSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, snap)
	return nil
}

func (f *fakeArchive) LatestSnapshot(context.Context) (*models.ReportSnapshot, error) {
	if len(f.saved) == 0 {
		return nil, errors.New("empty")
	}
	return &f.saved[len(f.saved)-1], nil
}

func newExporter(sheet SheetWriter, archive SnapshotStore) *Exporter {
	e := NewExporter(sampleSource(), sheet, archive, time.UTC, nil)
	e.now = func() time.Time { return time.Date(2024, 11, 15, 20, 0, 0, 0, time.UTC) }
	return e
}

func TestExport_WritesBothTargets(t *testing.T) {
	sheet := &fakeSheet{}
	archive := &fakeArchive{}
	e := newExporter(sheet, archive)

	snap, err := e.Export(context.Background(), "scheduler")
	require.NoError(t, err)

	assert.Equal(t, 10000.0, snap.TotalProduction)
	assert.Equal(t, 3, snap.ActiveOrders)
	assert.Equal(t, "scheduler", snap.Source)

	require.Len(t, sheet.appended[speciesRange], 4)
	assert.Equal(t, []interface{}{"2024-11-15", "Spirulina", 4200.0, 42}, sheet.appended[speciesRange][0])
	require.Len(t, sheet.appended[performanceRange], 4)
	assert.Equal(t, "Enero", sheet.appended[performanceRange][0][1])

	require.Len(t, archive.saved, 1)
	latest, err := e.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap.GeneratedAt, latest.GeneratedAt)
}

func TestExport_SameDayNotAppendedTwice(t *testing.T) {
	sheet := &fakeSheet{}
	e := newExporter(sheet, nil)

	_, err := e.Export(context.Background(), "manual")
	require.NoError(t, err)
	_, err = e.Export(context.Background(), "manual")
	require.NoError(t, err)

	assert.Len(t, sheet.appended[speciesRange], 4)
}

func TestExport_RetryFillsOnlyMissingTab(t *testing.T) {
	sheet := &fakeSheet{failOnce: map[string]error{performanceRange: errors.New("quota exceeded")}}
	e := newExporter(sheet, nil)

	_, err := e.Export(context.Background(), "scheduler")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export performance sheet")
	assert.Len(t, sheet.appended[speciesRange], 4)
	assert.Empty(t, sheet.appended[performanceRange])

	_, err = e.Export(context.Background(), "manual")
	require.NoError(t, err)
	assert.Len(t, sheet.appended[speciesRange], 4)
	assert.Len(t, sheet.appended[performanceRange], 4)
}

func TestExport_ArchiveFailureReported(t *testing.T) {
	sheet := &fakeSheet{}
	e := newExporter(sheet, &fakeArchive{err: errors.New("mongo down")})

	_, err := e.Export(context.Background(), "scheduler")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo down")
	assert.Len(t, sheet.appended[speciesRange], 4)
}

func TestLatest_WithoutArchive(t *testing.T) {
	_, err := newExporter(nil, nil).Latest(context.Background())
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}
