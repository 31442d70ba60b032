package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/docrank/internal/analyst"
	"github.com/dgallion1/docrank/internal/profile"
	"github.com/dgallion1/docrank/internal/report"
)

func TestNewJob_CollectionHashStable(t *testing.T) {
	persona := profile.Persona{Role: "Travel Planner"}
	files := []analyst.FileInput{
		{Filename: "a.txt", Data: []byte("alpha")},
		{Filename: "b.txt", Data: []byte("beta")},
	}

	j1 := NewJob(persona, "plan a trip", files)
	j2 := NewJob(persona, "plan a trip", files)

	if j1.ID == j2.ID {
		t.Error("expected distinct job IDs")
	}
	if j1.CollectionHash != j2.CollectionHash {
		t.Errorf("expected identical collection hashes, got %q and %q", j1.CollectionHash, j2.CollectionHash)
	}

	j3 := NewJob(persona, "plan a trip", files[:1])
	if j3.CollectionHash == j1.CollectionHash {
		t.Error("expected different hash for different collection")
	}
}

func TestNewJob_InitialState(t *testing.T) {
	j := NewJob(profile.Persona{Role: "HR Professional"}, "create onboarding forms", []analyst.FileInput{
		{Filename: "forms.pdf", Data: []byte("%PDF")},
	})
	if j.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, j.Status)
	}
	if j.Progress.TotalDocuments != 1 {
		t.Errorf("expected 1 total document, got %d", j.Progress.TotalDocuments)
	}
	if len(j.Files()) != 1 {
		t.Errorf("expected files to round-trip, got %d", len(j.Files()))
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob(profile.Persona{}, "task", nil)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusRunning, "analyzing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob(profile.Persona{}, "task", nil)
	job.AddError("doc 3 failed to parse")
	job.AddError("doc 7 failed to parse")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "doc 3 failed to parse" {
		t.Errorf("expected first error %q, got %q", "doc 3 failed to parse", snap.Progress.Errors[0])
	}
}

func TestJob_SetReport(t *testing.T) {
	job := NewJob(profile.Persona{}, "task", nil)
	rep := &report.Report{
		Performance: report.Performance{
			DocumentsFailed:  1,
			SectionsAnalyzed: 12,
		},
	}
	job.SetReport(rep)

	if job.Report() != rep {
		t.Error("expected report to round-trip")
	}
	snap := job.Snapshot()
	if snap.Progress.DocumentsFailed != 1 {
		t.Errorf("expected 1 failed document, got %d", snap.Progress.DocumentsFailed)
	}
	if snap.Progress.SectionsAnalyzed != 12 {
		t.Errorf("expected 12 sections analyzed, got %d", snap.Progress.SectionsAnalyzed)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := NewJob(profile.Persona{}, "task", nil)
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob(profile.Persona{}, "task", nil)
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob(profile.Persona{}, "old", nil)
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := NewJob(profile.Persona{}, "new", nil)
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
