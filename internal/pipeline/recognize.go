package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tradesphere/quote-engine/internal/catalog"
	"github.com/tradesphere/quote-engine/internal/config"
	"github.com/tradesphere/quote-engine/internal/model"
)

const (
	// baseConfidence is the floor for any synonym hit.
	baseConfidence = 0.8
	// wholeWordBonus rewards every synonym word appearing as a whole word.
	wholeWordBonus = 0.15
	// specificityBonus rewards synonyms longer than 10 characters.
	specificityBonus = 0.05
	// countBonusStep and countBonusCap shape the aggregate-confidence
	// reward for recognizing several services in one utterance.
	countBonusStep = 0.05
	countBonusCap  = 0.15
)

// Recognition is the recognizer's output: accepted candidates, the segments
// that matched nothing, and an aggregate confidence for the utterance.
type Recognition struct {
	Services     []model.RawService
	UnmappedText []string
	Confidence   float64
}

// Recognizer finds catalog services in normalized segments via synonym
// matching with confidence scoring, then extracts a quantity per candidate.
type Recognizer struct {
	provider catalog.Provider
	cfg      config.PipelineConfig
}

// NewRecognizer creates a Recognizer over the injected catalog.
func NewRecognizer(provider catalog.Provider, cfg config.PipelineConfig) *Recognizer {
	return &Recognizer{provider: provider, cfg: cfg}
}

// Recognize maps each segment to service candidates. Candidates below the
// recognition threshold are dropped entirely, not returned as hints.
func (r *Recognizer) Recognize(ctx context.Context, msg NormalizedMessage) (*Recognition, error) {
	synonyms, err := r.provider.Synonyms(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "recognize: load synonyms")
	}

	byService := make(map[string]model.RawService)
	var order []string
	var unmapped []string

	for _, segment := range msg.Segments {
		var matches []segmentMatch
		for _, entry := range synonyms {
			m, err := r.matchEntry(ctx, segment, entry)
			if err != nil {
				return nil, err
			}
			if m != nil {
				matches = append(matches, *m)
			}
		}
		if len(matches) == 0 {
			unmapped = append(unmapped, segment)
			continue
		}

		for _, m := range dropShadowed(matches) {
			candidate := m.service

			// Duplicate mentions keep the highest-confidence candidate;
			// on a tie the one that found a quantity wins.
			prev, seen := byService[candidate.Name]
			if !seen {
				order = append(order, candidate.Name)
				byService[candidate.Name] = candidate
			} else if candidate.Confidence > prev.Confidence ||
				(candidate.Confidence == prev.Confidence && prev.Quantity == 0 && candidate.Quantity > 0) {
				byService[candidate.Name] = candidate
			}
		}
	}

	rec := &Recognition{UnmappedText: unmapped}
	for _, name := range order {
		candidate := byService[name]
		if candidate.Confidence < r.cfg.RecognitionThreshold {
			zap.L().Debug("recognize: dropped low-confidence candidate",
				zap.String("service", candidate.Name),
				zap.Float64("confidence", candidate.Confidence),
			)
			continue
		}
		rec.Services = append(rec.Services, candidate)
	}
	rec.Confidence = aggregateConfidence(rec.Services)

	zap.L().Info("recognize: mapping complete",
		zap.Int("segments", len(msg.Segments)),
		zap.Int("services", len(rec.Services)),
		zap.Int("unmapped", len(rec.UnmappedText)),
		zap.Float64("confidence", rec.Confidence),
	)

	return rec, nil
}

// segmentMatch pairs a candidate with the synonym phrase that produced it,
// so overlapping matches within a segment can be resolved.
type segmentMatch struct {
	service model.RawService
	phrase  string
}

// dropShadowed removes candidates whose matched phrase sits inside a longer
// phrase matched by a different service in the same segment. "single ground
// mulch" names one service; the "mulch" inside it must not bill a second.
func dropShadowed(matches []segmentMatch) []segmentMatch {
	kept := make([]segmentMatch, 0, len(matches))
	for _, m := range matches {
		shadowed := false
		for _, other := range matches {
			if other.service.Name == m.service.Name {
				continue
			}
			if len(other.phrase) > len(m.phrase) && strings.Contains(other.phrase, m.phrase) {
				shadowed = true
				break
			}
		}
		if shadowed {
			zap.L().Debug("recognize: dropped shadowed candidate",
				zap.String("service", m.service.Name),
				zap.String("phrase", m.phrase),
			)
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// matchEntry checks one synonym entry against a segment. The first matching
// phrase wins for that entry.
func (r *Recognizer) matchEntry(ctx context.Context, segment string, entry model.SynonymEntry) (*segmentMatch, error) {
	for _, phrase := range entry.Phrases {
		if !strings.Contains(segment, phrase) {
			continue
		}

		sc, err := r.provider.ServiceByName(ctx, entry.Service)
		if err != nil {
			return nil, eris.Wrapf(err, "recognize: look up service %q", entry.Service)
		}
		if sc == nil {
			zap.L().Warn("recognize: synonym points at unknown service",
				zap.String("service", entry.Service),
				zap.String("phrase", phrase),
			)
			return nil, nil
		}

		confidence := baseConfidence
		if allWholeWords(segment, phrase) {
			confidence += wholeWordBonus
		}
		if len(phrase) > 10 {
			confidence += specificityBonus
		}
		if confidence > 1.0 {
			confidence = 1.0
		}

		candidate := model.RawService{
			Name:         sc.Name,
			Unit:         sc.Unit,
			Confidence:   confidence,
			OriginalText: segment,
		}

		if q := ExtractQuantity(segment, sc.Unit); q != nil {
			candidate.Quantity = q.Value
			candidate.ImplicitUnit = q.ImplicitUnit
		} else if sc.Unit == model.UnitSetup {
			// A setup is singular; no quantity in the text means one.
			candidate.Quantity = 1
		}

		return &segmentMatch{service: candidate, phrase: phrase}, nil
	}
	return nil, nil
}

// allWholeWords reports whether every word of the phrase appears as a whole
// word in the segment.
func allWholeWords(segment, phrase string) bool {
	for _, word := range strings.Fields(phrase) {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(word) + `\b`)
		if err != nil || !re.MatchString(segment) {
			return false
		}
	}
	return true
}

// aggregateConfidence is the mean candidate confidence plus a capped bonus
// for recognizing multiple services in one utterance.
func aggregateConfidence(services []model.RawService) float64 {
	if len(services) == 0 {
		return 0
	}
	var sum float64
	for _, s := range services {
		sum += s.Confidence
	}
	bonus := countBonusStep * float64(len(services))
	if bonus > countBonusCap {
		bonus = countBonusCap
	}
	confidence := sum/float64(len(services)) + bonus
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
