package models

// EventType enumerates the production stage codes stored by the backend.
type EventType string

const (
	EventSeeding     EventType = "SEEDING"
	EventGrowth      EventType = "GROWTH"
	EventHarvest     EventType = "HARVEST"
	EventProcessing  EventType = "PROCESSING"
	EventMaintenance EventType = "MAINTENANCE" // legacy
)

// AlertLevel enumerates the severity annotation the backend assigns to an event.
type AlertLevel string

const (
	AlertNone   AlertLevel = "NONE"
	AlertLow    AlertLevel = "LOW"
	AlertMedium AlertLevel = "MEDIUM"
	AlertHigh   AlertLevel = "HIGH"
)

// ProductionEvent mirrors a calendar record of the backend collaborator.
// StartDate and EndDate are kept as the raw ISO 8601 strings received on the wire.
type ProductionEvent struct {
	ID          ID         `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   string     `json:"startDate"`
	EndDate     string     `json:"endDate"`
	Type        EventType  `json:"type"`
	AlertLevel  AlertLevel `json:"alertLevel"`
}
