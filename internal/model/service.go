// Package model defines the shared domain types for the quoting pipeline.
package model

import "time"

// Unit identifies how a service is measured and billed.
type Unit string

const (
	UnitSqft       Unit = "sqft"
	UnitLinearFeet Unit = "linear_feet"
	UnitEach       Unit = "each"
	UnitCubicYards Unit = "cubic_yards"
	UnitSection    Unit = "section"
	UnitSetup      Unit = "setup"
	UnitZone       Unit = "zone"
)

// AllUnits returns every valid billing unit.
func AllUnits() []Unit {
	return []Unit{
		UnitSqft, UnitLinearFeet, UnitEach, UnitCubicYards,
		UnitSection, UnitSetup, UnitZone,
	}
}

// ServiceConfig is one immutable catalog entry. Row is the legacy row number
// in the external pricing spreadsheet and must remain stable across imports.
type ServiceConfig struct {
	Name      string `json:"name" yaml:"name"`
	Row       int    `json:"row" yaml:"row"`
	Unit      Unit   `json:"unit" yaml:"unit"`
	Category  string `json:"category" yaml:"category"`
	IsSpecial bool   `json:"is_special" yaml:"is_special"`
}

// SynonymEntry maps one canonical service name to its informal phrases.
// Entries are ordered; within a segment the first matching phrase wins.
type SynonymEntry struct {
	Service string   `json:"service" yaml:"service"`
	Phrases []string `json:"phrases" yaml:"phrases"`
}

// RawService is a single recognized service mention before validation.
type RawService struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         Unit    `json:"unit"`
	Confidence   float64 `json:"confidence"`
	OriginalText string  `json:"original_text"`
	// ImplicitUnit is set when the bare-number fallback assumed the unit
	// from the service config instead of finding it in the text.
	ImplicitUnit bool `json:"implicit_unit,omitempty"`
}

// ValidatedService is a RawService after the completeness check.
type ValidatedService struct {
	RawService
	IsComplete  bool     `json:"is_complete"`
	MissingInfo []string `json:"missing_info,omitempty"`
	Questions   []string `json:"questions,omitempty"`
}

// ExtractedService is a ValidatedService bound to its catalog entry.
type ExtractedService struct {
	ValidatedService
	Row                 int                  `json:"row"`
	Category            string               `json:"category"`
	IsSpecial           bool                 `json:"is_special"`
	SpecialRequirements *SpecialRequirements `json:"special_requirements,omitempty"`
}

// ZoneCounts breaks an irrigation zone total into turf and drip zones.
type ZoneCounts struct {
	Turf  int `json:"turf"`
	Drip  int `json:"drip"`
	Total int `json:"total"`
}

// SpecialRequirements carries the extra sub-fields a special-category
// service needs before pricing. Boring is a pointer so "not mentioned"
// stays distinguishable from an explicit no.
type SpecialRequirements struct {
	Zones         ZoneCounts `json:"zones"`
	Boring        *bool      `json:"boring,omitempty"`
	SetupRequired bool       `json:"setup_required"`
}

// CollectionStatus is the outcome of the parameter collection stage.
type CollectionStatus string

const (
	StatusIncomplete      CollectionStatus = "incomplete"
	StatusReadyForPricing CollectionStatus = "ready_for_pricing"
)

// CollectionResult is the external-facing output of the recognition and
// validation stages.
type CollectionResult struct {
	QuoteID             string             `json:"quote_id"`
	Status              CollectionStatus   `json:"status"`
	Services            []ExtractedService `json:"services"`
	UnmappedText        []string           `json:"unmapped_text,omitempty"`
	MissingInfo         []string           `json:"missing_info,omitempty"`
	ClarifyingQuestions []string           `json:"clarifying_questions,omitempty"`
	Confidence          float64            `json:"confidence"`
	SuggestedResponse   string             `json:"suggested_response,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
}
