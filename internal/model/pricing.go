package model

import "time"

// Tier1Result holds the labor-hour side of a price calculation.
type Tier1Result struct {
	TotalManHours    float64 `json:"total_man_hours"`
	TotalDays        float64 `json:"total_days"`
	ComplexityFactor float64 `json:"complexity_factor"`
}

// Tier2Result holds the cost side of a price calculation. All monetary
// values are rounded to 2 decimal places at the output boundary only.
type Tier2Result struct {
	LaborCost     float64 `json:"labor_cost"`
	MaterialCost  float64 `json:"material_cost"`
	EquipmentCost float64 `json:"equipment_cost"`
	FlatAdditions float64 `json:"flat_additions"`
	Subtotal      float64 `json:"subtotal"`
	Profit        float64 `json:"profit"`
	Total         float64 `json:"total"`
	PricePerUnit  float64 `json:"price_per_unit"`
}

// PricingResult is the final output of the two-tier pricing engine.
type PricingResult struct {
	Tier1        Tier1Result `json:"tier1"`
	Tier2        Tier2Result `json:"tier2"`
	Confidence   float64     `json:"confidence"`
	CalculatedAt time.Time   `json:"calculated_at"`
}
