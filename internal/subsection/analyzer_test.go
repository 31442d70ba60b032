package subsection

import (
	"strings"
	"testing"

	"github.com/dgallion1/docrank/internal/profile"
	"github.com/dgallion1/docrank/internal/scorer"
	"github.com/dgallion1/docrank/internal/section"
)

func testProfile(t *testing.T) *profile.Profile {
	t.Helper()
	table, err := profile.LoadDomainTable("")
	if err != nil {
		t.Fatalf("load domain table: %v", err)
	}
	p, err := profile.NewBuilder(table, nil).Build(
		profile.Persona{Role: "Travel Planner", Domain: "Tourism"},
		"plan a coastal itinerary",
	)
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}
	return p
}

func scoredSection(body string) scorer.ScoredSection {
	return scorer.ScoredSection{
		Section: section.Section{
			ID:         "d0:s0",
			DocumentID: "d0",
			Title:      "Coastal Highlights",
			Body:       body,
			Page:       3,
		},
	}
}

func TestAnalyze_DensityClamped(t *testing.T) {
	p := testProfile(t)
	a := NewAnalyzer(DefaultAnalyzerConfig(), nil)

	// Nearly every word is a profile keyword; raw density far exceeds the cap.
	body := strings.Repeat("travel itinerary tourism hotels culture attractions again. ", 6)
	for _, sub := range a.Analyze(scoredSection(body), p) {
		if sub.Score.Density > DensityCap {
			t.Errorf("density %.3f exceeds cap %.2f", sub.Score.Density, DensityCap)
		}
	}
}

func TestAnalyze_SubsectionIdentity(t *testing.T) {
	p := testProfile(t)
	a := NewAnalyzer(DefaultAnalyzerConfig(), nil)

	body := "The harbor walk takes about two hours and passes three villages along the coast. " +
		"Most visitors start early to avoid the midday heat near the cliffs.\n\n" +
		"A local ferry crosses to the island every forty minutes during the summer season."
	subs := a.Analyze(scoredSection(body), p)
	if len(subs) == 0 {
		t.Fatal("expected subsections")
	}
	for i, sub := range subs {
		if sub.ParentSectionID != "d0:s0" {
			t.Errorf("subsection %d: parent %q, want d0:s0", i, sub.ParentSectionID)
		}
		if !strings.HasPrefix(sub.ID, "d0:s0:u") {
			t.Errorf("subsection %d: id %q lacks parent prefix", i, sub.ID)
		}
		if sub.PageStart != 3 || sub.PageEnd != 3 {
			t.Errorf("subsection %d: pages %d-%d, want 3-3", i, sub.PageStart, sub.PageEnd)
		}
		if sub.Ordinal != i {
			t.Errorf("subsection %d: ordinal %d", i, sub.Ordinal)
		}
	}
}

func TestAnalyze_ActionableTextOutscoresFlat(t *testing.T) {
	p := testProfile(t)
	a := NewAnalyzer(DefaultAnalyzerConfig(), nil)

	procedural := "First, plan the route and select a base town for the stay over several days. " +
		"Then book the 3 hotels, prepare a packing checklist, and arrange tickets for 4 people."
	flat := "The coastline here is long and generally quiet throughout most of the calendar year."

	ps := a.Analyze(scoredSection(procedural), p)
	fs := a.Analyze(scoredSection(flat), p)
	if len(ps) == 0 || len(fs) == 0 {
		t.Fatal("expected subsections for both bodies")
	}
	if ps[0].Score.Total <= fs[0].Score.Total {
		t.Errorf("expected procedural text to outscore flat text: %.3f vs %.3f",
			ps[0].Score.Total, fs[0].Score.Total)
	}
	if ps[0].Score.Actionability <= fs[0].Score.Actionability {
		t.Errorf("expected higher actionability: %.3f vs %.3f",
			ps[0].Score.Actionability, fs[0].Score.Actionability)
	}
}

func TestTierAssignment(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig(), nil)
	tests := []struct {
		score float64
		want  Tier
	}{
		{0.75, TierHigh},
		{0.6, TierHigh},
		{0.45, TierMedium},
		{0.3, TierMedium},
		{0.1, TierLow},
		{0, TierLow},
	}
	for _, tt := range tests {
		if got := a.tier(tt.score); got != tt.want {
			t.Errorf("tier(%.2f) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSpecificityPatterns(t *testing.T) {
	tests := []struct {
		text string
		min  float64
		max  float64
	}{
		{"Walk 5 km to the Lighthouse Museum, entry costs 8 % less before noon.", 0.55, 1.0},
		{"step 3 covers the booking procedure for 6 people", 0.35, 1.0},
		{"it was fine", 0, 0},
	}
	for _, tt := range tests {
		got := specificity(tt.text)
		if got < tt.min || got > tt.max {
			t.Errorf("specificity(%q) = %.2f, want within [%.2f, %.2f]", tt.text, got, tt.min, tt.max)
		}
	}
}

func TestSegmenter_MergesSentencesToTarget(t *testing.T) {
	seg := NewSegmenter(SegmentConfig{TargetWords: 12, MinSentence: 5})

	body := "The first sentence has exactly eight words in it. " +
		"The second sentence also has exactly eight words. " +
		"A third sentence closes out the paragraph neatly."
	units := seg(body)
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d: %q", len(units), units)
	}
	if !strings.Contains(units[0], "first sentence") || !strings.Contains(units[0], "second sentence") {
		t.Errorf("expected first two sentences merged, got %q", units[0])
	}
}

func TestSegmenter_ParagraphBoundaryFlushes(t *testing.T) {
	seg := NewSegmenter(SegmentConfig{TargetWords: 100, MinSentence: 5})

	body := "A short opening paragraph sentence sits here alone.\n\nThe following paragraph continues separately with its own sentence."
	units := seg(body)
	if len(units) != 2 {
		t.Fatalf("expected paragraph boundary to flush, got %d units: %q", len(units), units)
	}
}

func TestSegmenter_DiscardsNoise(t *testing.T) {
	seg := NewSegmenter(DefaultSegmentConfig())
	if units := seg("Ok. Hm. No."); len(units) != 0 {
		t.Errorf("expected short fragments discarded, got %q", units)
	}
	if units := seg(""); len(units) != 0 {
		t.Errorf("expected no units for empty body, got %q", units)
	}
}

func TestSegmenter_CollapsesWhitespace(t *testing.T) {
	seg := NewSegmenter(DefaultSegmentConfig())
	units := seg("This  sentence\thas   uneven internal whitespace throughout its full length.")
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if strings.Contains(units[0], "  ") || strings.Contains(units[0], "\t") {
		t.Errorf("expected collapsed whitespace, got %q", units[0])
	}
}
