// Package pipeline turns free-text job descriptions into validated,
// priceable service tuples in four stages: normalize, recognize, validate,
// and an optional advisory AI pass.
package pipeline

import (
	"regexp"
	"strings"
)

// NormalizedMessage is the normalizer's output: the canonical text plus the
// ordered conjunction-split segments. Original keeps the raw input because
// special-service parsing reads the whole message, not just one segment.
type NormalizedMessage struct {
	Original string
	Text     string
	Segments []string
}

var (
	// NxM and "N x M" dimension notation, unified to "N by M".
	dimensionRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)`)

	// Number glued to a word ("45sqft") gets a separating space.
	gluedNumberRe = regexp.MustCompile(`(\d)([a-z])`)

	// Unit spelling families.
	sqftRe   = regexp.MustCompile(`\bsq\.?\s*(?:ft|feet|foot)\b|\bsquare\s*(?:feet|foot|ft)\b|\bsqft\b`)
	linearRe = regexp.MustCompile(`\blin(?:ear)?\.?\s*(?:ft|feet|foot)\b`)
	cubicRe  = regexp.MustCompile(`\bcu(?:bic)?\.?\s*(?:yards?|yds?)\b`)

	// Action verbs that carry no billable meaning.
	fillerRe = regexp.MustCompile(`\b(?:install(?:ing)?|installed|need(?:s|ing)?|want(?:s|ing)?|get|give me|looking for|please)\b`)

	segmentRe    = regexp.MustCompile(`\band\b|\bplus\b|\bwith\b|[,;]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes the input text and splits it into segments.
// Deterministic and side-effect free.
func Normalize(input string) NormalizedMessage {
	text := strings.ToLower(strings.TrimSpace(input))

	text = dimensionRe.ReplaceAllString(text, "$1 by $2")
	text = gluedNumberRe.ReplaceAllString(text, "$1 $2")

	text = sqftRe.ReplaceAllString(text, "sqft")
	text = linearRe.ReplaceAllString(text, "linear feet")
	text = cubicRe.ReplaceAllString(text, "cubic yards")

	text = fillerRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	var segments []string
	for _, seg := range segmentRe.Split(text, -1) {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}

	return NormalizedMessage{
		Original: input,
		Text:     text,
		Segments: segments,
	}
}
