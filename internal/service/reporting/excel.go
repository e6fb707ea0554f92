package reporting

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelContentType is the MIME type of the generated workbook.
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	speciesSheet     = "Producción por Especie"
	performanceSheet = "Rendimiento vs Meta"
	metricsSheet     = "Métricas Clave"
)

// ExcelFilename names the download for a generation time.
func ExcelFilename(at time.Time) string {
	return fmt.Sprintf("reporte-produccion-%s.xlsx", at.Format("2006-01-02"))
}

// GenerateExcel renders the report as an xlsx workbook with one sheet per section.
func GenerateExcel(rep Report, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2D6A4F"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	speciesRows := make([][]any, 0, len(rep.Especies))
	for _, e := range rep.Especies {
		speciesRows = append(speciesRows, []any{e.Nombre, e.Valor, e.Porcentaje})
	}
	perfRows := make([][]any, 0, len(rep.Rendimiento))
	for _, r := range rep.Rendimiento {
		perfRows = append(perfRows, []any{r.Mes, r.Meta, r.Real})
	}
	metricRows := [][]any{
		{"Producción Total (kg)", rep.Metricas.ProduccionTotal},
		{"Eficiencia (%)", rep.Metricas.Eficiencia},
		{"Cumplimiento (%)", rep.Metricas.Cumplimiento},
		{"Generado", generatedAt.Format("2006-01-02 15:04")},
	}

	sheets := []struct {
		name    string
		headers []string
		widths  []float64
		rows    [][]any
	}{
		{speciesSheet, []string{"Especie", "Producción (kg)", "Porcentaje (%)"}, []float64{22, 18, 16}, speciesRows},
		{performanceSheet, []string{"Mes", "Meta (%)", "Real (%)"}, []float64{16, 12, 12}, perfRows},
		{metricsSheet, []string{"Métrica", "Valor"}, []float64{26, 20}, metricRows},
	}

	for i, sh := range sheets {
		index, err := f.NewSheet(sh.name)
		if err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sh.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeTable(f, sh.name, sh.headers, sh.widths, sh.rows, headerStyle); err != nil {
			return nil, err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, headers []string, widths []float64, rows [][]any, headerStyle int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set header %s!%s: %w", sheet, cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %s!%s: %w", sheet, cell, err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if col < len(widths) {
			if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
				return fmt.Errorf("set width %s: %w", sheet, err)
			}
		}
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("row coordinates: %w", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d of %s: %w", r+2, sheet, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header of %s: %w", sheet, err)
	}
	return nil
}
