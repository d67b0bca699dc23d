package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tradesphere/quote-engine/internal/model"
)

// Special-category sub-fields are parsed from the original unsegmented
// message: conjunction splitting would otherwise separate "2 turf zones"
// from the irrigation mention it belongs to.

var (
	turfZoneRe  = regexp.MustCompile(`(\d+)\s+turf`)
	dripZoneRe  = regexp.MustCompile(`(\d+)\s+drip`)
	totalZoneRe = regexp.MustCompile(`(\d+)\s+(?:zones?|sprinkler zones?)`)
	zoneCountRe = regexp.MustCompile(`\d+`)
)

// boringKeywords signal that the irrigation line must be bored under a
// hard surface rather than trenched.
var boringKeywords = []string{
	"boring",
	"bore under",
	"under driveway",
	"under the driveway",
	"under sidewalk",
	"under the sidewalk",
	"under walkway",
	"beneath",
	"directional drill",
}

var noBoringRe = regexp.MustCompile(`\bno\s+boring\b|\bwithout\s+boring\b`)

// parseIrrigation extracts zone counts, boring, and setup sub-fields from
// the original message. Zone counts named neither turf nor drip default to
// turf. Boring stays nil when the message never mentions it either way.
func parseIrrigation(original string, unit model.Unit) *model.SpecialRequirements {
	text := strings.ToLower(original)

	req := &model.SpecialRequirements{
		SetupRequired: unit == model.UnitSetup || strings.Contains(text, "setup"),
	}

	req.Zones.Turf = sumMatches(turfZoneRe, text)
	req.Zones.Drip = sumMatches(dripZoneRe, text)

	if req.Zones.Turf > 0 || req.Zones.Drip > 0 {
		req.Zones.Total = req.Zones.Turf + req.Zones.Drip
	} else if total := sumMatches(totalZoneRe, text); total > 0 {
		// Unallocated totals default to turf.
		req.Zones.Total = total
		req.Zones.Turf = total
	}

	switch {
	case noBoringRe.MatchString(text):
		boring := false
		req.Boring = &boring
	case containsAny(text, boringKeywords...):
		boring := true
		req.Boring = &boring
	}

	return req
}

func sumMatches(re *regexp.Regexp, text string) int {
	total := 0
	for _, m := range re.FindAllString(text, -1) {
		if n, err := strconv.Atoi(zoneCountRe.FindString(m)); err == nil {
			total += n
		}
	}
	return total
}

// containsAny checks if s contains any of the given substrings.
func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
