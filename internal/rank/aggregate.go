// Package rank stack-ranks scored sections and subsections into the final
// ordered report population.
package rank

import (
	"sort"

	"github.com/dgallion1/docrank/internal/scorer"
	"github.com/dgallion1/docrank/internal/subsection"
)

// Default emission counts.
const (
	DefaultTopSections    = 5
	DefaultTopSubsections = 10
)

// Composite weighting for the advisory run-level score. It never feeds back
// into ranking.
const (
	sectionShare    = 0.6
	subsectionShare = 0.4
)

// Result is the aggregated ranking: emitted sections and subsections carry
// dense 1..K ranks.
type Result struct {
	Sections    []scorer.ScoredSection
	Subsections []subsection.Scored
	Composite   float64
}

// Aggregate sorts sections by total score descending, breaking ties by
// document-then-ordinal position ascending, and emits the top K of each
// population. Subsections are pooled from emitted sections only, so no
// emitted subsection can reference a missing parent.
func Aggregate(sections []scorer.ScoredSection, subsBySection map[string][]subsection.Scored, topSections, topSubsections int) Result {
	if topSubsections <= 0 {
		topSubsections = DefaultTopSubsections
	}

	ranked := SelectSections(sections, topSections)

	var pool []subsection.Scored
	for _, sec := range ranked {
		pool = append(pool, subsBySection[sec.ID]...)
	}
	sort.Slice(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.Score.Total != b.Score.Total {
			return a.Score.Total > b.Score.Total
		}
		if a.ParentDocOrd != b.ParentDocOrd {
			return a.ParentDocOrd < b.ParentDocOrd
		}
		if a.ParentSecOrd != b.ParentSecOrd {
			return a.ParentSecOrd < b.ParentSecOrd
		}
		return a.Ordinal < b.Ordinal
	})
	if len(pool) > topSubsections {
		pool = pool[:topSubsections]
	}
	for i := range pool {
		pool[i].Rank = i + 1
	}

	return Result{
		Sections:    ranked,
		Subsections: pool,
		Composite:   composite(ranked, pool),
	}
}

// SelectSections sorts by total score descending with the deterministic
// document-then-ordinal tiebreak, truncates to the top K, and assigns dense
// 1..K ranks. The pipeline uses it ahead of Aggregate to decide which
// sections get subsection analysis.
func SelectSections(sections []scorer.ScoredSection, topSections int) []scorer.ScoredSection {
	if topSections <= 0 {
		topSections = DefaultTopSections
	}
	ranked := make([]scorer.ScoredSection, len(sections))
	copy(ranked, sections)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Breakdown.Total != b.Breakdown.Total {
			return a.Breakdown.Total > b.Breakdown.Total
		}
		if a.DocOrdinal != b.DocOrdinal {
			return a.DocOrdinal < b.DocOrdinal
		}
		return a.Ordinal < b.Ordinal
	})
	if len(ranked) > topSections {
		ranked = ranked[:topSections]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func composite(sections []scorer.ScoredSection, subs []subsection.Scored) float64 {
	secMean := 0.0
	if len(sections) > 0 {
		for _, s := range sections {
			secMean += s.Breakdown.Total
		}
		secMean /= float64(len(sections))
	}
	subMean := 0.0
	if len(subs) > 0 {
		for _, s := range subs {
			subMean += s.Score.Total
		}
		subMean /= float64(len(subs))
	}
	return sectionShare*secMean + subsectionShare*subMean
}
