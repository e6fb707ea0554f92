package calendar

import "fmt"

// MonthNames are the localized month names indexed by zero-based month.
var MonthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// ShortMonthNames are the abbreviated month names used on chart axes.
var ShortMonthNames = [12]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}

// WeekDays are the column headers of a Monday-first grid.
var WeekDays = [7]string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sab", "Dom"}

// MonthName returns the localized name of a zero-based month index, or "" when out of range.
func MonthName(month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	return MonthNames[month]
}

// ShortMonthName returns the abbreviated name of a zero-based month index.
func ShortMonthName(month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	return ShortMonthNames[month]
}

// DayLabel renders "Día 12 de Noviembre".
func DayLabel(day, month int) string {
	return fmt.Sprintf("Día %d de %s", day, MonthName(month))
}

// LegendEntry is one stage swatch of the calendar legend.
type LegendEntry struct {
	Etapa Stage  `json:"etapa"`
	Label string `json:"label"`
}

// Legend lists the stages in display order with their compact labels.
var Legend = []LegendEntry{
	{Etapa: StageSeeding, Label: "Siembra"},
	{Etapa: StageGrowth, Label: "Crec."},
	{Etapa: StageHarvest, Label: "Cosecha"},
	{Etapa: StageProcessing, Label: "Proc."},
}

var stageLabels = map[Stage]string{
	StageSeeding:    "Siembra",
	StageGrowth:     "Crecimiento",
	StageHarvest:    "Cosecha",
	StageProcessing: "Procesamiento",
}

// Label returns the human readable name of the stage.
func (s Stage) Label() string {
	return stageLabels[s]
}
