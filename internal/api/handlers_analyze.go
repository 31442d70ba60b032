package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docrank/internal/analyst"
	"github.com/dgallion1/docrank/internal/parser"
	"github.com/dgallion1/docrank/internal/pipeline"
	"github.com/dgallion1/docrank/internal/profile"
	"github.com/go-chi/chi/v5"
)

// handleAnalyze accepts a multipart collection plus persona and task fields
// and queues an analysis job. The response carries the job ID for polling.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	task := strings.TrimSpace(r.FormValue("task"))
	if task == "" {
		jsonError(w, "task is required", http.StatusBadRequest)
		return
	}

	var persona profile.Persona
	if raw := r.FormValue("persona"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &persona); err != nil {
			jsonError(w, "invalid persona json: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if persona.Role == "" {
		persona.Role = r.FormValue("role")
	}

	fhs := r.MultipartForm.File["files"]
	if len(fhs) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var files []analyst.FileInput
	for _, fh := range fhs {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			jsonError(w, fmt.Sprintf("failed to open %s", filename), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, fmt.Sprintf("failed to read %s", filename), http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}

		files = append(files, analyst.FileInput{Filename: filename, Data: data})
	}

	job := pipeline.NewJob(persona, task, files)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	// A pool worker may already be mutating the job; encode a locked snapshot
	// rather than reading fields directly.
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":     snap.ID,
		"status":     snap.Status,
		"documents":  len(files),
		"poll_url":   fmt.Sprintf("/api/analyze/%s/status", snap.ID),
		"report_url": fmt.Sprintf("/api/analyze/%s/report", snap.ID),
	})
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

// handleAnalyzeReport serves the full ranked report once the run finishes.
// Partial runs still have a report; failed runs return the recorded errors.
func (s *Server) handleAnalyzeReport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	rep := job.Report()
	if rep == nil {
		snap := job.Snapshot()
		if snap.Status == pipeline.StatusFailed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{
				"job_id": snap.ID,
				"status": snap.Status,
				"phase":  snap.Phase,
				"errors": snap.Progress.Errors,
			})
			return
		}
		jsonError(w, fmt.Sprintf("report not ready, job is %s", snap.Status), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
