package models

import "time"

// SectorStatus enumerates the health of a cultivation sector.
type SectorStatus string

const (
	SectorOptimal  SectorStatus = "OPTIMAL"
	SectorAlert    SectorStatus = "ALERT"
	SectorCritical SectorStatus = "CRITICAL"
)

// Sector is a monitored cultivation area.
type Sector struct {
	ID          ID           `json:"id,omitempty"`
	Name        string       `json:"name"`
	Temperature float64      `json:"temperature"`
	Humidity    float64      `json:"humidity"`
	Salinity    float64      `json:"salinity"`
	PH          float64      `json:"ph"`
	Status      SectorStatus `json:"status"`
	Alert       string       `json:"alert,omitempty"`
	Location    string       `json:"location"`
}

// SectorReading is one temperature sample for a sector.
type SectorReading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Target      float64   `json:"target"`
}

// AlertType classifies a monitoring alert.
type AlertType string

const (
	AlertTypeWeather AlertType = "WEATHER"
	AlertTypeSystem  AlertType = "SYSTEM"
	AlertTypeWarning AlertType = "WARNING"
)

// Severity grades a monitoring alert.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// MonitoringAlert is an environmental or system alert raised by the backend.
type MonitoringAlert struct {
	ID          ID        `json:"id"`
	Type        AlertType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Sector      string    `json:"sector"`
	CreatedAt   time.Time `json:"createdAt"`
}
