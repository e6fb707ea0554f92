package models

import "time"

// SpeciesProduction is the produced volume (kg) of one species over the reporting period.
type SpeciesProduction struct {
	Species string  `json:"species" bson:"species"`
	Value   float64 `json:"value" bson:"value"`
}

// MonthlyPerformance compares achieved against targeted performance for a month (1-12).
type MonthlyPerformance struct {
	Month  int     `json:"month" bson:"month"`
	Target float64 `json:"target" bson:"target"`
	Actual float64 `json:"actual" bson:"actual"`
}

// MonthlyProduction is the produced volume against the production goal for a month (1-12).
type MonthlyProduction struct {
	Month      int     `json:"month" bson:"month"`
	Production float64 `json:"production" bson:"production"`
	Target     float64 `json:"target" bson:"target"`
}

// ReportSnapshot represents an exported report archived in MongoDB.
type ReportSnapshot struct {
	GeneratedAt        time.Time            `bson:"generated_at" json:"generated_at"`
	Source             string               `bson:"source" json:"source"`
	ProductionBySpecie []SpeciesProduction  `bson:"production_by_species" json:"production_by_species"`
	Performance        []MonthlyPerformance `bson:"performance" json:"performance"`
	ActiveOrders       int                  `bson:"active_orders" json:"active_orders"`
	TotalProduction    float64              `bson:"total_production" json:"total_production"`
}
