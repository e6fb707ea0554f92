package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownAction indicates a navigation action the state machine does not understand.
var ErrUnknownAction = errors.New("unknown navigation action")

// Mode is the calendar display mode.
type Mode string

const (
	ModeMonth Mode = "month"
	ModeYear  Mode = "year"
)

// Action is a navigation transition.
type Action string

const (
	ActionPrevMonth      Action = "prev-month"
	ActionNextMonth      Action = "next-month"
	ActionPrevYear       Action = "prev-year"
	ActionNextYear       Action = "next-year"
	ActionToggleExpanded Action = "toggle"
)

// Cursor is the displayed (zero-based month, year) pair.
type Cursor struct {
	Month int `json:"mes"`
	Year  int `json:"anio"`
}

// Label renders "Noviembre 2024".
func (c Cursor) Label() string {
	return fmt.Sprintf("%s %d", MonthName(c.Month), c.Year)
}

// InitialCursor anchors the calendar on the first event, or on now when there is none.
func InitialCursor(events []Event, now time.Time) Cursor {
	if len(events) > 0 {
		return Cursor{Month: events[0].Mes, Year: events[0].Anio}
	}
	return Cursor{Month: int(now.Month()) - 1, Year: now.Year()}
}

// Navigator tracks the cursor and display mode. It is not safe for concurrent use.
type Navigator struct {
	cursor   Cursor
	expanded bool
}

// NewNavigator starts in month view at the given cursor.
func NewNavigator(c Cursor) *Navigator {
	return &Navigator{cursor: c}
}

// Cursor returns the current (month, year).
func (n *Navigator) Cursor() Cursor { return n.cursor }

// Mode returns the current display mode.
func (n *Navigator) Mode() Mode {
	if n.expanded {
		return ModeYear
	}
	return ModeMonth
}

// PrevMonth moves one month back, wrapping January to December of the previous year.
func (n *Navigator) PrevMonth() {
	if n.cursor.Month == 0 {
		n.cursor.Month = 11
		n.cursor.Year--
		return
	}
	n.cursor.Month--
}

// NextMonth moves one month forward, wrapping December to January of the next year.
func (n *Navigator) NextMonth() {
	if n.cursor.Month == 11 {
		n.cursor.Month = 0
		n.cursor.Year++
		return
	}
	n.cursor.Month++
}

func (n *Navigator) PrevYear() { n.cursor.Year-- }

func (n *Navigator) NextYear() { n.cursor.Year++ }

// ToggleExpanded switches between month and year view.
func (n *Navigator) ToggleExpanded() { n.expanded = !n.expanded }

// SelectMonth opens the month view on the given month of the current year.
func (n *Navigator) SelectMonth(month int) error {
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	n.cursor.Month = month
	n.expanded = false
	return nil
}

// Apply performs a named transition.
func (n *Navigator) Apply(action Action) error {
	switch action {
	case ActionPrevMonth:
		n.PrevMonth()
	case ActionNextMonth:
		n.NextMonth()
	case ActionPrevYear:
		n.PrevYear()
	case ActionNextYear:
		n.NextYear()
	case ActionToggleExpanded:
		n.ToggleExpanded()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}
