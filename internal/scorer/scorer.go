// Package scorer assigns persona-relevance scores to document sections.
// Sections are scored independently of each other, so callers may evaluate
// them in parallel; ordering is imposed later by the aggregator.
package scorer

import (
	"regexp"
	"strings"

	"github.com/dgallion1/docrank/internal/profile"
	"github.com/dgallion1/docrank/internal/section"
)

// Weights combines the three sub-scores into the section total. They should
// sum to 1.0; Validate on the config layer enforces that.
type Weights struct {
	Keyword float64
	Context float64
	Quality float64
}

// DefaultWeights returns the calibrated section score weights.
func DefaultWeights() Weights {
	return Weights{Keyword: 0.4, Context: 0.4, Quality: 0.2}
}

// Breakdown carries the per-factor scores, each in [0,1].
type Breakdown struct {
	Keyword float64 `json:"keyword_match"`
	Context float64 `json:"context_relevance"`
	Quality float64 `json:"content_quality"`
	Total   float64 `json:"total"`
}

// ScoredSection is a section plus its relevance breakdown. Rank is zero until
// the aggregator assigns it.
type ScoredSection struct {
	section.Section
	Breakdown Breakdown
	Rank      int
}

// Scorer evaluates sections against a profile.
type Scorer struct {
	weights Weights
	quality QualityConfig
}

// New creates a Scorer. Zero-value configs fall back to defaults.
func New(weights Weights, quality QualityConfig) *Scorer {
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if quality == (QualityConfig{}) {
		quality = DefaultQualityConfig()
	}
	return &Scorer{weights: weights, quality: quality}
}

// Score computes the weighted relevance of one section. An empty body scores
// zero on every factor; it never errors, so callers wanting to exclude empty
// sections must filter before ranking.
func (s *Scorer) Score(sec section.Section, p *profile.Profile) ScoredSection {
	scored := ScoredSection{Section: sec}

	body := strings.TrimSpace(sec.Body)
	if body == "" {
		return scored
	}
	lower := strings.ToLower(body)
	words := bodyWords(lower)

	scored.Breakdown.Keyword = keywordScore(words, p)
	scored.Breakdown.Context = contextScore(lower, p.ContextTags())
	scored.Breakdown.Quality = s.quality.Score(words)
	scored.Breakdown.Total = clamp01(
		s.weights.Keyword*scored.Breakdown.Keyword +
			s.weights.Context*scored.Breakdown.Context +
			s.weights.Quality*scored.Breakdown.Quality)
	return scored
}

var bodyWordPattern = regexp.MustCompile(`[a-z0-9][a-z0-9'-]*`)

// bodyWords extracts the whole-word tokens of an already-lowercased body.
func bodyWords(lower string) []string {
	return bodyWordPattern.FindAllString(lower, -1)
}

// keywordScore is the weight fraction of profile keywords present at least
// once as a whole word, capped at 1.0. Iteration is over the profile's sorted
// keyword list to keep float summation deterministic across runs.
func keywordScore(words []string, p *profile.Profile) float64 {
	keywords := p.Keywords()
	if len(keywords) == 0 {
		return 0
	}
	present := make(map[string]struct{}, len(words))
	for _, w := range words {
		present[w] = struct{}{}
	}
	matched, total := 0.0, 0.0
	for _, kw := range keywords {
		total += kw.Weight
		if _, ok := present[kw.Keyword]; ok {
			matched += kw.Weight
		}
	}
	if total == 0 {
		return 0
	}
	return clamp01(matched / total)
}

// contextScore is the fraction of context-preference tags with at least one
// trigger phrase in the body. No resolvable tags means 0 for this factor, not
// a skip: personas without preferences score lower on this axis.
func contextScore(lower string, tags []profile.ContextTag) float64 {
	if len(tags) == 0 {
		return 0
	}
	matched := 0
	for _, tag := range tags {
		for _, trigger := range tag.Triggers {
			if strings.Contains(lower, strings.ToLower(trigger)) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(tags))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
