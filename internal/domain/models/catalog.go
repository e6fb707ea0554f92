package models

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Species describes a cultivated algae species.
type Species struct {
	ID                 ID      `json:"id,omitempty"`
	Name               string  `json:"name"`
	ScientificName     string  `json:"scientificName"`
	AverageCycleDays   int     `json:"averageCycleDays"`
	OptimalTemperature Range   `json:"optimalTemperature"`
	OptimalPH          Range   `json:"optimalPh"`
	OptimalSalinity    Range   `json:"optimalSalinity"`
	ExpectedYield      float64 `json:"expectedYield"`
	Color              string  `json:"color"`
	Uses               string  `json:"uses"`
	Description        string  `json:"description"`
}

// Formula describes a nutrient formula applied to the cultures.
type Formula struct {
	ID          ID       `json:"id,omitempty"`
	Name        string   `json:"name"`
	Nutrients   []string `json:"nutrients"`
	Dosage      string   `json:"dosage"`
	Application string   `json:"application"`
}
