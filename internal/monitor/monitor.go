// Package monitor enforces the per-run time and memory budgets. A Run is
// created for each pipeline invocation and discarded at completion; it is
// never shared across concurrent runs.
package monitor

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
)

// ResourceError aborts a run before any document work when the host cannot
// satisfy the memory budget.
type ResourceError struct {
	NeedGB float64
	HaveGB float64
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("insufficient memory: need %.2fGB, have %.2fGB available", e.NeedGB, e.HaveGB)
}

// Budget is the run's resource envelope.
type Budget struct {
	Deadline        time.Duration
	MemoryCeilingGB float64
}

// DefaultBudget mirrors the batch constraints the pipeline is tuned for.
func DefaultBudget() Budget {
	return Budget{
		Deadline:        60 * time.Second,
		MemoryCeilingGB: 1.0,
	}
}

const bytesPerGB = 1 << 30

// Run tracks elapsed time and memory across one pipeline invocation. Sampling
// happens at stage checkpoints, not inside inner loops, so cancellation
// granularity is per stage.
type Run struct {
	budget Budget
	start  time.Time

	mu          sync.Mutex
	baseHeap    uint64
	peakHeap    uint64
	deadlineHit bool
}

// availableMemoryGB is swapped out in tests.
var availableMemoryGB = func() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return float64(vm.Available) / bytesPerGB, nil
}

// Start validates the memory budget against the host and begins timing.
// It fails fast with a ResourceError before any document work when available
// memory is below the ceiling.
func Start(b Budget) (*Run, error) {
	if b.Deadline <= 0 {
		b.Deadline = DefaultBudget().Deadline
	}
	if b.MemoryCeilingGB <= 0 {
		b.MemoryCeilingGB = DefaultBudget().MemoryCeilingGB
	}

	have, err := availableMemoryGB()
	if err != nil {
		return nil, fmt.Errorf("probe memory: %w", err)
	}
	if have < b.MemoryCeilingGB {
		return nil, &ResourceError{NeedGB: b.MemoryCeilingGB, HaveGB: have}
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return &Run{
		budget:   b,
		start:    time.Now(),
		baseHeap: ms.HeapAlloc,
		peakHeap: ms.HeapAlloc,
	}, nil
}

// Checkpoint samples elapsed time and heap usage at a stage boundary. It
// returns false once the deadline has been exceeded; the pipeline then stops
// scheduling further work and assembles a partial report. It never errors:
// partial ranked output beats none.
func (r *Run) Checkpoint() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapAlloc > r.peakHeap {
		r.peakHeap = ms.HeapAlloc
	}

	if time.Since(r.start) > r.budget.Deadline {
		r.deadlineHit = true
	}
	return !r.deadlineHit
}

// DeadlineExceeded reports whether any checkpoint observed an expired budget.
func (r *Run) DeadlineExceeded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deadlineHit
}

// Elapsed is the wall-clock time since Start.
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.start)
}

// MemoryUsedGB is the peak heap growth observed at checkpoints.
func (r *Run) MemoryUsedGB() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.peakHeap <= r.baseHeap {
		return 0
	}
	return float64(r.peakHeap-r.baseHeap) / bytesPerGB
}

// WithinMemory reports whether peak usage stayed under the ceiling.
func (r *Run) WithinMemory() bool {
	return r.MemoryUsedGB() <= r.budget.MemoryCeilingGB
}

// Budget returns the configured envelope.
func (r *Run) Budget() Budget {
	return r.budget
}
