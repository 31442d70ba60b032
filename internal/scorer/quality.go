package scorer

// QualityConfig shapes the content-quality sub-score: a triangular length
// suitability function peaking at IdealWords, blended with token uniqueness.
type QualityConfig struct {
	MinWords   int // below this, length suitability is 0
	IdealWords int // peak of the triangular function
	MaxWords   int // at or above this, length suitability is 0
}

// DefaultQualityConfig favors substantial but not sprawling sections.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MinWords:   20,
		IdealWords: 200,
		MaxWords:   1200,
	}
}

// Score composes length suitability and uniqueness, equally weighted.
func (q QualityConfig) Score(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	return (q.lengthSuitability(len(words)) + uniqueness(words)) / 2
}

// lengthSuitability rises linearly from MinWords to IdealWords and decays
// linearly back to 0 at MaxWords.
func (q QualityConfig) lengthSuitability(n int) float64 {
	switch {
	case n <= q.MinWords || n >= q.MaxWords:
		return 0
	case n == q.IdealWords:
		return 1
	case n < q.IdealWords:
		return float64(n-q.MinWords) / float64(q.IdealWords-q.MinWords)
	default:
		return float64(q.MaxWords-n) / float64(q.MaxWords-q.IdealWords)
	}
}

// uniqueness is the distinct-to-total token ratio, rewarding non-repetitive
// prose.
func uniqueness(words []string) float64 {
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[w] = struct{}{}
	}
	return float64(len(distinct)) / float64(len(words))
}
