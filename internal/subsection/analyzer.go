package subsection

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/docrank/internal/profile"
	"github.com/dgallion1/docrank/internal/scorer"
)

// Quality tiers stratify subsections for readers scanning the report.
type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// Tier thresholds and factor weights. Fixed constants; override via
// AnalyzerConfig, never by editing call sites.
const (
	DefaultTierHighMin   = 0.6
	DefaultTierMediumMin = 0.3

	DefaultDensityWeight       = 0.35
	DefaultSpecificityWeight   = 0.35
	DefaultActionabilityWeight = 0.30

	// DensityCap clamps keyword density: repetition beyond this ceiling
	// does not linearly improve usefulness.
	DensityCap = 0.30
)

// GranularScore is the per-subsection factor breakdown.
type GranularScore struct {
	Density       float64 `json:"keyword_density"`
	Specificity   float64 `json:"specificity"`
	Actionability float64 `json:"actionability"`
	Total         float64 `json:"total"`
	Tier          Tier    `json:"quality"`
}

// Scored is one analyzed subsection. Rank is zero until the aggregator
// assigns it.
type Scored struct {
	ID              string
	ParentSectionID string
	DocumentID      string
	Text            string
	PageStart       int
	PageEnd         int
	Ordinal         int // position within the parent section
	ParentDocOrd    int
	ParentSecOrd    int
	Score           GranularScore
	Rank            int
}

// AnalyzerConfig tunes thresholds and weights.
type AnalyzerConfig struct {
	TierHighMin   float64
	TierMediumMin float64

	DensityWeight       float64
	SpecificityWeight   float64
	ActionabilityWeight float64
}

// DefaultAnalyzerConfig returns the documented defaults.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		TierHighMin:         DefaultTierHighMin,
		TierMediumMin:       DefaultTierMediumMin,
		DensityWeight:       DefaultDensityWeight,
		SpecificityWeight:   DefaultSpecificityWeight,
		ActionabilityWeight: DefaultActionabilityWeight,
	}
}

// Analyzer segments and scores the subsections of top-ranked sections.
type Analyzer struct {
	cfg     AnalyzerConfig
	segment Segmenter
}

// NewAnalyzer creates an Analyzer. A nil segmenter selects the default
// sentence-merge strategy.
func NewAnalyzer(cfg AnalyzerConfig, segment Segmenter) *Analyzer {
	if cfg == (AnalyzerConfig{}) {
		cfg = DefaultAnalyzerConfig()
	}
	if segment == nil {
		segment = NewSegmenter(DefaultSegmentConfig())
	}
	return &Analyzer{cfg: cfg, segment: segment}
}

// Analyze splits one scored section into subsections and scores each.
// Subsections only ever derive from sections that survived top-K selection;
// the pipeline enforces that by calling Analyze on emitted sections only.
func (a *Analyzer) Analyze(sec scorer.ScoredSection, p *profile.Profile) []Scored {
	units := a.segment(sec.Body)
	out := make([]Scored, 0, len(units))
	for i, text := range units {
		gs := a.scoreUnit(text, p)
		out = append(out, Scored{
			ID:              fmt.Sprintf("%s:u%d", sec.ID, i),
			ParentSectionID: sec.ID,
			DocumentID:      sec.DocumentID,
			Text:            text,
			PageStart:       sec.Page,
			PageEnd:         sec.Page,
			Ordinal:         i,
			ParentDocOrd:    sec.DocOrdinal,
			ParentSecOrd:    sec.Ordinal,
			Score:           gs,
		})
	}
	return out
}

func (a *Analyzer) scoreUnit(text string, p *profile.Profile) GranularScore {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	gs := GranularScore{
		Density:       keywordDensity(words, p),
		Specificity:   specificity(text),
		Actionability: actionability(lower),
	}
	gs.Total = a.cfg.DensityWeight*gs.Density +
		a.cfg.SpecificityWeight*gs.Specificity +
		a.cfg.ActionabilityWeight*gs.Actionability
	gs.Tier = a.tier(gs.Total)
	return gs
}

func (a *Analyzer) tier(score float64) Tier {
	switch {
	case score >= a.cfg.TierHighMin:
		return TierHigh
	case score >= a.cfg.TierMediumMin:
		return TierMedium
	default:
		return TierLow
	}
}

var densityWordTrim = strings.NewReplacer(".", "", ",", "", ";", "", ":", "", "!", "", "?", "", "(", "", ")", "", "\"", "")

// keywordDensity counts profile-keyword occurrences per word, clamped at
// DensityCap.
func keywordDensity(words []string, p *profile.Profile) float64 {
	if len(words) == 0 {
		return 0
	}
	hits := 0
	for _, w := range words {
		if p.Weight(densityWordTrim.Replace(w)) > 0 {
			hits++
		}
	}
	d := float64(hits) / float64(len(words))
	if d > DensityCap {
		return DensityCap
	}
	return d
}

// Presence patterns rewarding concrete detail: durations, money and
// percentages, group sizes, procedural references, enumerations, and
// capitalized multi-word names.
var specificityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\s*(days?|hours?|minutes?|km|miles?|kg|g|ml|l)\b`),
	regexp.MustCompile(`[$€£]\s?\d+|\d+\s*%`),
	regexp.MustCompile(`(?i)\b\d+\s*(people|persons?|guests?|servings?)\b`),
	regexp.MustCompile(`(?i)\b(step\s*\d+|instruction|procedure|method)\b`),
	regexp.MustCompile(`(?m)^\s*(\d+[.)]|[-*•])\s`),
	regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`),
}

const specificityPerPattern = 0.2

// specificity is presence-weighted: each matching pattern family adds a fixed
// increment, capped at 1.0.
func specificity(text string) float64 {
	score := 0.0
	for _, pat := range specificityPatterns {
		if pat.MatchString(text) {
			score += specificityPerPattern
		}
	}
	if score > 1 {
		return 1
	}
	return score
}

// proceduralConnectives mark sequencing prose.
var proceduralConnectives = []string{
	"first", "then", "next", "finally", "afterwards", "step",
}

const actionabilityPerHit = 0.1

// actionability rewards imperative verbs and procedural connectives, a fixed
// increment per distinct hit, capped at 1.0.
func actionability(lower string) float64 {
	hits := 0
	for _, v := range profile.ActionVerbs() {
		if containsWord(lower, v) {
			hits++
		}
	}
	for _, c := range proceduralConnectives {
		if containsWord(lower, c) {
			hits++
		}
	}
	score := float64(hits) * actionabilityPerHit
	if score > 1 {
		return 1
	}
	return score
}

func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordRune(lower[start-1])
		afterOK := end == len(lower) || !isWordRune(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordRune(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '\''
}
