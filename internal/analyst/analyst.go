// Package analyst drives a full analysis run: profile derivation, document
// parsing, section scoring, subsection analysis, and ranking, under the
// monitor's time and memory budgets.
package analyst

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/monitor"
	"github.com/dgallion1/docrank/internal/parser"
	"github.com/dgallion1/docrank/internal/profile"
	"github.com/dgallion1/docrank/internal/rank"
	"github.com/dgallion1/docrank/internal/report"
	"github.com/dgallion1/docrank/internal/scorer"
	"github.com/dgallion1/docrank/internal/section"
	"github.com/dgallion1/docrank/internal/subsection"
)

// ErrNoContent means no document in the collection yielded any section.
var ErrNoContent = errors.New("no extractable content in collection")

// FileInput is one raw collection member.
type FileInput struct {
	Filename string
	Title    string
	Data     []byte
}

// Request is the input to a run.
type Request struct {
	Persona profile.Persona
	Task    string
	Files   []FileInput
}

// Options tunes a run. Zero values select defaults.
type Options struct {
	Weights  scorer.Weights
	Quality  scorer.QualityConfig
	Segment  subsection.SegmentConfig
	Analyzer subsection.AnalyzerConfig
	Limits   section.Limits

	TopSections    int
	TopSubsections int

	MaxConcurrentScore int

	Budget monitor.Budget
}

// OptionsFromConfig maps the environment configuration onto run options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Weights: scorer.Weights{
			Keyword: cfg.KeywordWeight,
			Context: cfg.ContextWeight,
			Quality: cfg.QualityWeight,
		},
		Quality: scorer.QualityConfig{
			MinWords:   cfg.QualityMinWords,
			IdealWords: cfg.QualityIdealWords,
			MaxWords:   cfg.QualityMaxWords,
		},
		Segment: subsection.SegmentConfig{
			TargetWords: cfg.SubsectionTargetWords,
		},
		Analyzer: subsection.AnalyzerConfig{
			TierHighMin:         cfg.TierHighMin,
			TierMediumMin:       cfg.TierMediumMin,
			DensityWeight:       subsection.DefaultDensityWeight,
			SpecificityWeight:   subsection.DefaultSpecificityWeight,
			ActionabilityWeight: subsection.DefaultActionabilityWeight,
		},
		Limits: section.Limits{
			MaxPerDocument: cfg.MaxSectionsPerDoc,
			MaxBodyRunes:   section.DefaultLimits().MaxBodyRunes,
		},
		TopSections:        cfg.TopSections,
		TopSubsections:     cfg.TopSubsections,
		MaxConcurrentScore: cfg.MaxConcurrentScore,
		Budget: monitor.Budget{
			Deadline:        cfg.RunDeadline,
			MemoryCeilingGB: cfg.MemoryCeilingGB,
		},
	}
}

// Analyst runs collection analyses. It is safe for concurrent use; all
// per-run state lives in the monitor Run and local variables.
type Analyst struct {
	builder  *profile.Builder
	scorer   *scorer.Scorer
	analyzer *subsection.Analyzer
	opts     Options
	stats    *monitor.StageStats
	log      *slog.Logger
}

// New creates an Analyst. A nil stats sink disables latency accounting.
func New(builder *profile.Builder, opts Options, stats *monitor.StageStats, log *slog.Logger) *Analyst {
	if opts.MaxConcurrentScore <= 0 {
		opts.MaxConcurrentScore = 8
	}
	if opts.Limits == (section.Limits{}) {
		opts.Limits = section.DefaultLimits()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Analyst{
		builder:  builder,
		scorer:   scorer.New(opts.Weights, opts.Quality),
		analyzer: subsection.NewAnalyzer(opts.Analyzer, subsection.NewSegmenter(opts.Segment)),
		opts:     opts,
		stats:    stats,
		log:      log,
	}
}

// parsedDoc pairs a document's metadata with its extracted sections.
type parsedDoc struct {
	meta     report.DocumentMeta
	sections []section.Section
}

// Run executes the full pipeline. It fails fast on invalid input or an
// unsatisfiable memory budget; a deadline hit mid-run instead yields a
// partial report flagged in performance_metrics. Context cancellation aborts
// between stages.
func (a *Analyst) Run(ctx context.Context, req Request) (*report.Report, error) {
	started := time.Now()

	run, err := monitor.Start(a.opts.Budget)
	if err != nil {
		return nil, err
	}

	// Profile derivation. Invalid persona/job input rejects the run before
	// any document is touched.
	t := time.Now()
	prof, err := a.builder.Build(req.Persona, req.Task)
	if err != nil {
		return nil, err
	}
	a.record(monitor.StageProfile, t)
	run.Checkpoint()

	// Parse. Failures are isolated per document: a bad file is recorded and
	// skipped, never aborts the collection.
	t = time.Now()
	docs, sections, skipped := a.parseAll(req.Files)
	a.record(monitor.StageParse, t)

	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: %d of %d documents failed", ErrNoContent, failedCount(docs), len(docs))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Score sections. Each section is independent, so evaluation fans out
	// across a bounded worker set; the indexed result slice keeps output
	// order deterministic. Scoring always runs: a partial report must still
	// carry a section ranking, so the deadline gates only the stages after
	// this one.
	t = time.Now()
	scored := a.scoreAll(sections, prof)
	a.record(monitor.StageScore, t)

	// Subsection analysis runs only on sections that survive top-K
	// selection.
	topSections := rank.SelectSections(scored, a.opts.TopSections)
	subsBySection := make(map[string][]subsection.Scored, len(topSections))
	if run.Checkpoint() {
		t = time.Now()
		analyzed := make([][]subsection.Scored, len(topSections))
		sem := make(chan struct{}, a.opts.MaxConcurrentScore)
		var wg sync.WaitGroup
		for i, sec := range topSections {
			sem <- struct{}{}
			wg.Add(1)
			go func(i int, sec scorer.ScoredSection) {
				defer wg.Done()
				defer func() { <-sem }()
				analyzed[i] = a.analyzer.Analyze(sec, prof)
			}(i, sec)
		}
		wg.Wait()
		for i, sec := range topSections {
			subsBySection[sec.ID] = analyzed[i]
		}
		a.record(monitor.StageSubsection, t)
	}

	run.Checkpoint()
	t = time.Now()
	result := rank.Aggregate(scored, subsBySection, a.opts.TopSections, a.opts.TopSubsections)
	a.record(monitor.StageRank, t)
	run.Checkpoint()

	rep := a.assemble(req, prof, docs, result, run, started, len(sections), skipped)
	a.log.Info("run complete",
		"documents", len(docs),
		"documents_failed", failedCount(docs),
		"sections", len(sections),
		"emitted_sections", len(result.Sections),
		"emitted_subsections", len(result.Subsections),
		"partial", rep.Performance.PartialResult,
		"elapsed_ms", run.Elapsed().Milliseconds(),
	)
	return rep, nil
}

func (a *Analyst) parseAll(files []FileInput) ([]parsedDoc, []section.Section, int) {
	docs := make([]parsedDoc, 0, len(files))
	var all []section.Section
	skipped := 0

	for i, f := range files {
		doc := section.Document{
			ID:       fmt.Sprintf("d%d", i),
			Filename: f.Filename,
			Title:    f.Title,
			Ordinal:  i,
		}
		meta := report.DocumentMeta{ID: doc.ID, Filename: f.Filename, Title: f.Title}

		p, err := parser.ForFile(f.Filename)
		if err != nil {
			a.log.Warn("unsupported document skipped", "filename", f.Filename, "error", err)
			meta.Failed = true
			meta.Error = err.Error()
			docs = append(docs, parsedDoc{meta: meta})
			continue
		}

		tree, err := p.Parse(bytes.NewReader(f.Data), f.Filename)
		if err != nil {
			a.log.Warn("document parse failed, skipped", "filename", f.Filename, "error", err)
			meta.Failed = true
			meta.Error = err.Error()
			docs = append(docs, parsedDoc{meta: meta})
			continue
		}
		if meta.Title == "" {
			meta.Title = tree.Title
			doc.Title = tree.Title
		}

		secs, dropped := section.FromTree(doc, tree, a.opts.Limits)
		skipped += dropped
		meta.Sections = len(secs)
		docs = append(docs, parsedDoc{meta: meta, sections: secs})
		all = append(all, secs...)
	}
	return docs, all, skipped
}

func (a *Analyst) scoreAll(sections []section.Section, prof *profile.Profile) []scorer.ScoredSection {
	scored := make([]scorer.ScoredSection, len(sections))
	sem := make(chan struct{}, a.opts.MaxConcurrentScore)
	var wg sync.WaitGroup

	for i, sec := range sections {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, sec section.Section) {
			defer wg.Done()
			defer func() { <-sem }()
			scored[i] = a.scorer.Score(sec, prof)
		}(i, sec)
	}
	wg.Wait()
	return scored
}

func (a *Analyst) assemble(req Request, prof *profile.Profile, docs []parsedDoc, result rank.Result, run *monitor.Run, started time.Time, analyzed, skipped int) *report.Report {
	extracted, subs := report.FromRanking(result)

	metas := make([]report.DocumentMeta, 0, len(docs))
	for _, d := range docs {
		metas = append(metas, d.meta)
	}

	partial := run.DeadlineExceeded()
	budget := run.Budget()
	return &report.Report{
		Metadata: report.Metadata{
			Documents: metas,
			Persona:   req.Persona,
			Job:       prof.Job,
			Timestamp: report.Timestamp(started),
			Constraints: report.Constraints{
				DeadlineSeconds: budget.Deadline.Seconds(),
				MemoryCeilingGB: budget.MemoryCeilingGB,
			},
			CompositeScore: report.Round4(result.Composite),
		},
		ExtractedSections:  extracted,
		SubsectionAnalysis: subs,
		Performance: report.Performance{
			ProcessingTimeSeconds: report.Round4(run.Elapsed().Seconds()),
			MemoryUsedGB:          report.Round4(run.MemoryUsedGB()),
			DocumentsProcessed:    len(docs) - failedCount(docs),
			DocumentsFailed:       failedCount(docs),
			SectionsAnalyzed:      analyzed,
			SectionsSkipped:       skipped,
			PartialResult:         partial,
			WithinConstraints: report.WithinConstraints{
				TimeLimit:   !partial,
				MemoryLimit: run.WithinMemory(),
			},
		},
	}
}

func (a *Analyst) record(stage string, since time.Time) {
	if a.stats != nil {
		a.stats.Record(stage, time.Since(since))
	}
}

func failedCount(docs []parsedDoc) int {
	n := 0
	for _, d := range docs {
		if d.meta.Failed {
			n++
		}
	}
	return n
}
