package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docrank/internal/report"
)

func TestWriteReport_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "report.json")

	rep := &report.Report{
		ExtractedSections: []report.ExtractedSection{
			{SectionID: "d0:s0", DocumentID: "d0", ImportanceRank: 1, RelevanceScore: 0.8123},
		},
	}
	if err := WriteReport(path, rep); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got report.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.ExtractedSections) != 1 || got.ExtractedSections[0].SectionID != "d0:s0" {
		t.Errorf("round trip mismatch: %+v", got.ExtractedSections)
	}
}

func TestWriteReport_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteReport(path, &report.Report{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("expected valid JSON, got %q", data)
	}
}

func TestWriteReport_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	if err := WriteReport(filepath.Join(dir, "report.json"), &report.Report{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "report.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("unexpected directory contents: %v", names)
	}
}
