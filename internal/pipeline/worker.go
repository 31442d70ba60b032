package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgallion1/docrank/internal/analyst"
	"github.com/dgallion1/docrank/internal/monitor"
	"github.com/dgallion1/docrank/internal/profile"
)

// Worker runs queued analysis jobs.
type Worker struct {
	analyst *analyst.Analyst
	log     *slog.Logger
}

func NewWorker(a *analyst.Analyst, log *slog.Logger) *Worker {
	return &Worker{analyst: a, log: log}
}

// Process executes one job. Run errors fail the job with a phase naming the
// rejection point; a deadline-limited run lands in partial, not failed.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	job.SetStatus(StatusRunning, "analyzing")
	rep, err := w.analyst.Run(ctx, analyst.Request{
		Persona: job.Persona,
		Task:    job.Task,
		Files:   job.Files(),
	})
	if err != nil {
		log.Error("run failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, failurePhase(err))
		return
	}

	job.SetReport(rep)
	if rep.Performance.PartialResult {
		log.Warn("run hit deadline, partial report", "sections", len(rep.ExtractedSections))
		job.SetStatus(StatusPartial, "done")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}

// failurePhase maps a run error to the stage it rejected in.
func failurePhase(err error) string {
	var invalid *profile.InvalidInputError
	var resource *monitor.ResourceError
	switch {
	case errors.As(err, &invalid):
		return "input_validation"
	case errors.As(err, &resource):
		return "admission"
	case errors.Is(err, analyst.ErrNoContent):
		return "parsing"
	default:
		return "analyzing"
	}
}
