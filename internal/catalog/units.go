package catalog

import (
	"strings"

	"github.com/tradesphere/quote-engine/internal/model"
)

// unitTokens maps each billing unit to the raw text tokens it accepts.
// Compatibility is an explicit whitelist, not string equality: "zones" and
// "spouts" are context-specific synonyms for count-based special categories.
// An empty token means a bare number with no unit at all.
var unitTokens = map[model.Unit][]string{
	model.UnitSqft:       {"", "sqft", "square_feet", "sq_ft", "squarefeet"},
	model.UnitLinearFeet: {"linear_feet", "feet", "ft", "linear", "lin_ft"},
	model.UnitCubicYards: {"cubic_yards", "yards", "yard", "cu_yd", "cuyd"},
	model.UnitEach:       {"", "each", "piece", "ea", "zones", "spouts"},
	model.UnitSection:    {"section", "sections"},
	model.UnitSetup:      {"setup", "setups"},
	model.UnitZone:       {"zone", "zones"},
}

// NormalizeUnitToken cleans a raw unit token from user text: lowercase,
// dots stripped, internal whitespace collapsed to underscores.
func NormalizeUnitToken(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	token = strings.ReplaceAll(token, ".", "")
	token = strings.Join(strings.Fields(token), "_")
	return token
}

// CompatibleUnit reports whether a normalized unit token may quantify a
// service billed in the given unit.
func CompatibleUnit(unit model.Unit, token string) bool {
	token = NormalizeUnitToken(token)
	if token == string(unit) {
		return true
	}
	for _, t := range unitTokens[unit] {
		if t == token {
			return true
		}
	}
	return false
}

// IsUnitToken reports whether the token maps to any known unit. Used by the
// recognizer to tell unit words apart from service words.
func IsUnitToken(token string) bool {
	token = NormalizeUnitToken(token)
	if token == "" {
		return false
	}
	for _, tokens := range unitTokens {
		for _, t := range tokens {
			if t == token {
				return true
			}
		}
	}
	return false
}
