package rank

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docrank/internal/scorer"
	"github.com/dgallion1/docrank/internal/section"
	"github.com/dgallion1/docrank/internal/subsection"
)

func sec(id string, docOrd, ord int, total float64) scorer.ScoredSection {
	return scorer.ScoredSection{
		Section: section.Section{
			ID:         id,
			DocumentID: fmt.Sprintf("d%d", docOrd),
			DocOrdinal: docOrd,
			Ordinal:    ord,
		},
		Breakdown: scorer.Breakdown{Total: total},
	}
}

func sub(parent string, docOrd, secOrd, ord int, total float64) subsection.Scored {
	return subsection.Scored{
		ID:              fmt.Sprintf("%s:u%d", parent, ord),
		ParentSectionID: parent,
		ParentDocOrd:    docOrd,
		ParentSecOrd:    secOrd,
		Ordinal:         ord,
		Score:           subsection.GranularScore{Total: total},
	}
}

func TestAggregate_DenseRanksDescending(t *testing.T) {
	sections := []scorer.ScoredSection{
		sec("d0:s0", 0, 0, 0.2),
		sec("d0:s1", 0, 1, 0.9),
		sec("d1:s0", 1, 0, 0.5),
		sec("d1:s1", 1, 1, 0.7),
	}

	res := Aggregate(sections, nil, 3, 10)
	require.Len(t, res.Sections, 3)

	for i, s := range res.Sections {
		assert.Equal(t, i+1, s.Rank, "dense 1..K ranks")
	}
	assert.Equal(t, "d0:s1", res.Sections[0].ID)
	assert.Equal(t, "d1:s1", res.Sections[1].ID)
	assert.Equal(t, "d1:s0", res.Sections[2].ID)
	for i := 1; i < len(res.Sections); i++ {
		assert.GreaterOrEqual(t,
			res.Sections[i-1].Breakdown.Total,
			res.Sections[i].Breakdown.Total)
	}
}

func TestAggregate_TieBreakByDocumentOrder(t *testing.T) {
	sections := []scorer.ScoredSection{
		sec("d1:s0", 1, 0, 0.5),
		sec("d0:s2", 0, 2, 0.5),
		sec("d0:s1", 0, 1, 0.5),
	}

	res := Aggregate(sections, nil, 3, 10)
	require.Len(t, res.Sections, 3)
	// Equal scores resolve by document ordinal, then section ordinal.
	assert.Equal(t, "d0:s1", res.Sections[0].ID)
	assert.Equal(t, "d0:s2", res.Sections[1].ID)
	assert.Equal(t, "d1:s0", res.Sections[2].ID)
}

func TestAggregate_SubsectionsOnlyFromEmittedSections(t *testing.T) {
	sections := []scorer.ScoredSection{
		sec("d0:s0", 0, 0, 0.9),
		sec("d0:s1", 0, 1, 0.8),
		sec("d0:s2", 0, 2, 0.1), // cut by top-2
	}
	subs := map[string][]subsection.Scored{
		"d0:s0": {sub("d0:s0", 0, 0, 0, 0.4), sub("d0:s0", 0, 0, 1, 0.9)},
		"d0:s1": {sub("d0:s1", 0, 1, 0, 0.6)},
		"d0:s2": {sub("d0:s2", 0, 2, 0, 0.99)}, // parent not emitted
	}

	res := Aggregate(sections, subs, 2, 10)
	require.Len(t, res.Sections, 2)

	emitted := map[string]bool{}
	for _, s := range res.Sections {
		emitted[s.ID] = true
	}
	require.Len(t, res.Subsections, 3)
	for i, u := range res.Subsections {
		assert.True(t, emitted[u.ParentSectionID],
			"subsection %d references emitted parent", i)
		assert.Equal(t, i+1, u.Rank)
	}
	// Highest scoring surviving subsection ranks first.
	assert.Equal(t, "d0:s0:u1", res.Subsections[0].ID)
}

func TestAggregate_TopSubsectionTruncation(t *testing.T) {
	sections := []scorer.ScoredSection{sec("d0:s0", 0, 0, 0.9)}
	var pool []subsection.Scored
	for i := 0; i < 15; i++ {
		pool = append(pool, sub("d0:s0", 0, 0, i, float64(i)/20))
	}
	res := Aggregate(sections, map[string][]subsection.Scored{"d0:s0": pool}, 5, 10)
	require.Len(t, res.Subsections, 10)
	for i, u := range res.Subsections {
		assert.Equal(t, i+1, u.Rank)
	}
}

func TestAggregate_Composite(t *testing.T) {
	sections := []scorer.ScoredSection{
		sec("d0:s0", 0, 0, 0.8),
		sec("d0:s1", 0, 1, 0.6),
	}
	subs := map[string][]subsection.Scored{
		"d0:s0": {sub("d0:s0", 0, 0, 0, 0.5)},
	}
	res := Aggregate(sections, subs, 5, 10)
	// 0.6*mean(0.8,0.6) + 0.4*0.5
	assert.InDelta(t, 0.6*0.7+0.4*0.5, res.Composite, 1e-9)
}

func TestAggregate_EmptyInput(t *testing.T) {
	res := Aggregate(nil, nil, 5, 10)
	assert.Empty(t, res.Sections)
	assert.Empty(t, res.Subsections)
	assert.Zero(t, res.Composite)
}

func TestSelectSections_DoesNotMutateInput(t *testing.T) {
	sections := []scorer.ScoredSection{
		sec("d0:s0", 0, 0, 0.1),
		sec("d0:s1", 0, 1, 0.9),
	}
	_ = SelectSections(sections, 1)
	assert.Equal(t, "d0:s0", sections[0].ID, "input order preserved")
	assert.Zero(t, sections[0].Rank, "input ranks untouched")
}
