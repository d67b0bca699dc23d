package pipeline

import (
	"regexp"
	"strconv"

	"github.com/tradesphere/quote-engine/internal/catalog"
	"github.com/tradesphere/quote-engine/internal/model"
)

// Quantity is one extracted quantity/unit pair. ImplicitUnit marks the
// bare-number fallback, where the unit was assumed from the service config.
type Quantity struct {
	Value        float64
	Unit         model.Unit
	ImplicitUnit bool
}

// quantityExtractor tries one extraction strategy against a segment.
// Returning nil means "no match": the chain falls through to the next
// strategy instead of failing.
type quantityExtractor func(segment string, unit model.Unit) *Quantity

// extractionChain is ordered by priority: dimension inference beats
// number+unit pairs, which beat the bare-number fallback.
var extractionChain = []quantityExtractor{
	extractFromDimensions,
	extractNumberWithUnit,
	extractBareNumber,
}

// ExtractQuantity runs the extraction chain for a service billed in the
// given unit. Returns nil when no strategy matches.
func ExtractQuantity(segment string, unit model.Unit) *Quantity {
	for _, extract := range extractionChain {
		if q := extract(segment, unit); q != nil {
			return q
		}
	}
	return nil
}

// "12 by 10" after normalization; computes area in sqft.
var dimPairRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s+by\s+(\d+(?:\.\d+)?)`)

// extractFromDimensions infers area from "length by width" notation. It
// only applies when the inferred unit matches the service's declared unit.
func extractFromDimensions(segment string, unit model.Unit) *Quantity {
	m := dimPairRe.FindStringSubmatch(segment)
	if m == nil {
		return nil
	}
	if unit != model.UnitSqft {
		return nil
	}
	length, err1 := strconv.ParseFloat(m[1], 64)
	width, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil || length <= 0 || width <= 0 {
		return nil
	}
	return &Quantity{Value: length * width, Unit: model.UnitSqft}
}

// Two-word canonical units first so "linear feet" is not read as "linear".
var numberUnitRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(linear feet|cubic yards|[a-z][a-z_]*)`)

// extractNumberWithUnit scans for <number> <unit-token> pairs compatible
// with the service's unit. When several qualify, the maximum quantity wins
// so an incidental smaller number is not picked up.
func extractNumberWithUnit(segment string, unit model.Unit) *Quantity {
	matches := numberUnitRe.FindAllStringSubmatch(segment, -1)
	var best *Quantity
	for _, m := range matches {
		token := catalog.NormalizeUnitToken(m[2])
		if !catalog.IsUnitToken(token) {
			continue
		}
		if !catalog.CompatibleUnit(unit, token) {
			// Incompatible unit: drop this match, keep scanning.
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= 0 {
			continue
		}
		if best == nil || v > best.Value {
			best = &Quantity{Value: v, Unit: unit}
		}
	}
	return best
}

var bareNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// extractBareNumber takes the first unqualified number in the segment when
// the service is billed in sqft or each, assuming the unit from the config.
// The result is flagged so downstream confidence is never raised for it.
func extractBareNumber(segment string, unit model.Unit) *Quantity {
	if unit != model.UnitSqft && unit != model.UnitEach {
		return nil
	}
	m := bareNumberRe.FindString(segment)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &Quantity{Value: v, Unit: unit, ImplicitUnit: true}
}
