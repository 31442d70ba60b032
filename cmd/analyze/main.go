// Command analyze runs a one-shot collection analysis from a JSON manifest
// and writes the ranked report to disk.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/dgallion1/docrank/internal/analyst"
	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/monitor"
	"github.com/dgallion1/docrank/internal/output"
	"github.com/dgallion1/docrank/internal/profile"
	"github.com/dgallion1/docrank/internal/report"
)

// manifest is the collection description the CLI consumes.
type manifest struct {
	Persona     profile.Persona `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
	Documents []struct {
		Filename string `json:"filename"`
		Title    string `json:"title,omitempty"`
	} `json:"documents"`
}

func main() {
	var (
		inputPath  = flag.String("input", "", "path to the collection manifest JSON")
		docsDir    = flag.String("docs", "", "directory holding the collection files (default: manifest directory)")
		outputPath = flag.String("output", "report.json", "path to write the ranked report")
		quiet      = flag.Bool("quiet", false, "suppress the ranking summary")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -input manifest.json [-docs dir] [-output report.json]")
		os.Exit(2)
	}

	m, err := loadManifest(*inputPath)
	if err != nil {
		fatal("read manifest: %v", err)
	}

	dir := *docsDir
	if dir == "" {
		dir = filepath.Dir(*inputPath)
	}

	files := make([]analyst.FileInput, 0, len(m.Documents))
	for _, d := range m.Documents {
		data, err := os.ReadFile(filepath.Join(dir, d.Filename))
		if err != nil {
			fatal("read document: %v", err)
		}
		files = append(files, analyst.FileInput{Filename: d.Filename, Title: d.Title, Data: data})
	}

	cfg := config.Load()
	table, err := profile.LoadDomainTable(cfg.DomainTablePath)
	if err != nil {
		fatal("load domain table: %v", err)
	}

	stats := monitor.NewStageStats(time.Hour)
	a := analyst.New(profile.NewBuilder(table, nil), analyst.OptionsFromConfig(cfg), stats, log)

	rep, err := a.Run(context.Background(), analyst.Request{
		Persona: m.Persona,
		Task:    m.JobToBeDone.Task,
		Files:   files,
	})
	if err != nil {
		fatal("analysis failed: %v", err)
	}

	if err := output.WriteReport(*outputPath, rep); err != nil {
		fatal("write report: %v", err)
	}

	if !*quiet {
		printSummary(rep, *outputPath)
	}
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}

func printSummary(rep *report.Report, outputPath string) {
	header := color.New(color.FgCyan, color.Bold)
	rank := color.New(color.FgYellow)
	warn := color.New(color.FgRed, color.Bold)

	header.Printf("Top sections (%d documents, composite %.4f)\n",
		len(rep.Metadata.Documents), rep.Metadata.CompositeScore)
	for _, s := range rep.ExtractedSections {
		rank.Printf("  #%d ", s.ImportanceRank)
		fmt.Printf("%.4f  %s", s.RelevanceScore, s.SectionTitle)
		if s.PageNumber > 0 {
			fmt.Printf(" (p.%d)", s.PageNumber)
		}
		fmt.Println()
	}

	perf := rep.Performance
	if perf.PartialResult {
		warn.Println("partial result: run hit its deadline")
	}
	if perf.DocumentsFailed > 0 {
		warn.Printf("%d document(s) failed to parse\n", perf.DocumentsFailed)
	}
	fmt.Printf("report written to %s (%.2fs, %d sections analyzed)\n",
		outputPath, perf.ProcessingTimeSeconds, perf.SectionsAnalyzed)
}

func fatal(format string, args ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
