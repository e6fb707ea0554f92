package calendar

import (
	"sort"
	"time"
)

// DaysIn returns the number of days of a zero-based month, computed as day 0 of the following month.
func DaysIn(month, year int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Cell is one slot of a month grid. Day is 0 for the padding before the first day.
type Cell struct {
	Day    int     `json:"dia"`
	Events []Event `json:"eventos,omitempty"`
}

// MonthGrid is a Monday-first grid of weeks.
type MonthGrid struct {
	Month int      `json:"mes"`
	Year  int      `json:"anio"`
	Name  string   `json:"nombre"`
	Weeks [][]Cell `json:"semanas"`
}

// BuildMonth lays out a month and places the events that fall on each day.
func BuildMonth(month, year int, events []Event) MonthGrid {
	byDay := make(map[int][]Event)
	for _, ev := range events {
		if ev.Mes == month && ev.Anio == year {
			byDay[ev.Dia] = append(byDay[ev.Dia], ev)
		}
	}

	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7

	var cells []Cell
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{})
	}
	for day := 1; day <= DaysIn(month, year); day++ {
		cells = append(cells, Cell{Day: day, Events: byDay[day]})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{})
	}

	weeks := make([][]Cell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}

	return MonthGrid{Month: month, Year: year, Name: MonthName(month), Weeks: weeks}
}

// BuildYear lays out all twelve months of a year.
func BuildYear(year int, events []Event) []MonthGrid {
	grids := make([]MonthGrid, 0, 12)
	for month := 0; month < 12; month++ {
		grids = append(grids, BuildMonth(month, year, events))
	}
	return grids
}

// Upcoming returns at most limit events starting on or after the day of now, earliest first.
func Upcoming(events []Event, now time.Time, limit int) []Event {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if !ev.Start.Before(today) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
