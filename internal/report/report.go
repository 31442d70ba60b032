// Package report defines the ranked output structure emitted by a run.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/dgallion1/docrank/internal/profile"
	"github.com/dgallion1/docrank/internal/rank"
)

// Report is the full analysis output for one document collection.
type Report struct {
	Metadata           Metadata           `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionEntry  `json:"subsection_analysis"`
	Performance        Performance        `json:"performance_metrics"`
}

// Metadata echoes the run inputs and constraint configuration.
type Metadata struct {
	Documents      []DocumentMeta  `json:"documents"`
	Persona        profile.Persona `json:"persona"`
	Job            profile.Job     `json:"job"`
	Timestamp      string          `json:"timestamp"`
	Constraints    Constraints     `json:"constraints"`
	CompositeScore float64         `json:"composite_score"`
}

// DocumentMeta records one collection member and its processing outcome.
type DocumentMeta struct {
	ID       string `json:"document_id"`
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
	Sections int    `json:"sections"`
	Failed   bool   `json:"failed,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Constraints are the budgets the run was configured with.
type Constraints struct {
	DeadlineSeconds float64 `json:"deadline_seconds"`
	MemoryCeilingGB float64 `json:"memory_ceiling_gb"`
}

// ScoreBreakdown mirrors the scorer's sub-factors, rounded for output.
type ScoreBreakdown struct {
	KeywordMatch     float64 `json:"keyword_match"`
	ContextRelevance float64 `json:"context_relevance"`
	ContentQuality   float64 `json:"content_quality"`
}

// ExtractedSection is one emitted top-ranked section.
type ExtractedSection struct {
	SectionID      string         `json:"section_id"`
	DocumentID     string         `json:"document_id"`
	PageNumber     int            `json:"page_number"`
	SectionTitle   string         `json:"section_title"`
	ImportanceRank int            `json:"importance_rank"`
	RelevanceScore float64        `json:"relevance_score"`
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
}

// PageConstraints locates a subsection in its source pages.
type PageConstraints struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Range string `json:"range"`
	Total int    `json:"total"`
}

// GranularRelevance is a subsection's factor breakdown plus quality tier.
type GranularRelevance struct {
	Density       float64 `json:"density"`
	Specificity   float64 `json:"specificity"`
	Actionability float64 `json:"actionability"`
	Quality       string  `json:"quality"`
}

// SubsectionEntry is one emitted top-ranked subsection.
type SubsectionEntry struct {
	SubsectionID    string            `json:"subsection_id"`
	ParentSectionID string            `json:"parent_section_id"`
	SubsectionRank  int               `json:"subsection_rank"`
	RefinedText     string            `json:"refined_text"`
	PageConstraints PageConstraints   `json:"page_number_constraints"`
	Granular        GranularRelevance `json:"granular_relevance"`
}

// WithinConstraints flags which budgets held for the run.
type WithinConstraints struct {
	TimeLimit   bool `json:"time_limit"`
	MemoryLimit bool `json:"memory_limit"`
}

// Performance is the run's resource accounting. Skip and failure counts are
// reported here so no isolated error disappears silently.
type Performance struct {
	ProcessingTimeSeconds float64           `json:"processing_time_seconds"`
	MemoryUsedGB          float64           `json:"memory_used_gb"`
	DocumentsProcessed    int               `json:"documents_processed"`
	DocumentsFailed       int               `json:"documents_failed"`
	SectionsAnalyzed      int               `json:"sections_analyzed"`
	SectionsSkipped       int               `json:"sections_skipped"`
	PartialResult         bool              `json:"partial_result"`
	WithinConstraints     WithinConstraints `json:"within_constraints"`
}

// Round4 rounds a score for output; four decimal places is the report's
// numeric contract.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Timestamp formats the run time for metadata.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FromRanking converts an aggregation result into the emitted section and
// subsection entries.
func FromRanking(r rank.Result) ([]ExtractedSection, []SubsectionEntry) {
	sections := make([]ExtractedSection, 0, len(r.Sections))
	for _, s := range r.Sections {
		sections = append(sections, ExtractedSection{
			SectionID:      s.ID,
			DocumentID:     s.DocumentID,
			PageNumber:     s.Page,
			SectionTitle:   s.Title,
			ImportanceRank: s.Rank,
			RelevanceScore: Round4(s.Breakdown.Total),
			ScoreBreakdown: ScoreBreakdown{
				KeywordMatch:     Round4(s.Breakdown.Keyword),
				ContextRelevance: Round4(s.Breakdown.Context),
				ContentQuality:   Round4(s.Breakdown.Quality),
			},
		})
	}

	subs := make([]SubsectionEntry, 0, len(r.Subsections))
	for _, u := range r.Subsections {
		subs = append(subs, SubsectionEntry{
			SubsectionID:    u.ID,
			ParentSectionID: u.ParentSectionID,
			SubsectionRank:  u.Rank,
			RefinedText:     u.Text,
			PageConstraints: PageConstraints{
				Start: u.PageStart,
				End:   u.PageEnd,
				Range: pageRange(u.PageStart, u.PageEnd),
				Total: u.PageEnd - u.PageStart + 1,
			},
			Granular: GranularRelevance{
				Density:       Round4(u.Score.Density),
				Specificity:   Round4(u.Score.Specificity),
				Actionability: Round4(u.Score.Actionability),
				Quality:       string(u.Score.Tier),
			},
		})
	}
	return sections, subs
}

func pageRange(start, end int) string {
	if start == end {
		return fmt.Sprintf("Page %d", start)
	}
	return fmt.Sprintf("Pages %d-%d", start, end)
}
