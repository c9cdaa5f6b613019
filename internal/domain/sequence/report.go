// Package sequence runs provisioning steps in declared order and
// produces the run report.
package sequence

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/shipshape/internal/domain/step"
)

// ResultStatus is the reported outcome of one step.
type ResultStatus string

const (
	// ResultOK indicates the step's action ran and succeeded.
	ResultOK ResultStatus = "ok"
	// ResultSkipped indicates the precondition already held.
	ResultSkipped ResultStatus = "skipped"
	// ResultFailedNonfatal indicates the action failed but the run continued.
	ResultFailedNonfatal ResultStatus = "failed-nonfatal"
	// ResultFailedFatal indicates the action failed and aborted the run.
	ResultFailedFatal ResultStatus = "failed-fatal"
)

// String returns the string representation of the status.
func (s ResultStatus) String() string {
	return string(s)
}

// Failed reports whether the status represents a failure.
func (s ResultStatus) Failed() bool {
	return s == ResultFailedNonfatal || s == ResultFailedFatal
}

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	stepID   step.StepID
	status   ResultStatus
	err      error
	duration time.Duration
}

// NewStepResult creates a new StepResult.
func NewStepResult(stepID step.StepID, status ResultStatus, err error) StepResult {
	return StepResult{
		stepID: stepID,
		status: status,
		err:    err,
	}
}

// StepID returns the ID of the step that was executed.
func (r StepResult) StepID() step.StepID {
	return r.stepID
}

// Status returns the reported outcome of the step.
func (r StepResult) Status() ResultStatus {
	return r.status
}

// Error returns any error that occurred during execution.
func (r StepResult) Error() error {
	return r.err
}

// Duration returns how long the step took to execute.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// RunSummary provides aggregate statistics about a run.
type RunSummary struct {
	Total          int
	OK             int
	Skipped        int
	FailedNonfatal int
	FailedFatal    int
}

// RunReport is the ordered record of one provisioning run.
type RunReport struct {
	runID   uuid.UUID
	started time.Time
	results []StepResult
}

// NewRunReport creates an empty RunReport with a fresh run ID.
func NewRunReport() *RunReport {
	return &RunReport{
		runID:   uuid.New(),
		started: time.Now(),
		results: make([]StepResult, 0),
	}
}

// RunID returns the unique identifier of this run.
func (r *RunReport) RunID() uuid.UUID {
	return r.runID
}

// Started returns when the run began.
func (r *RunReport) Started() time.Time {
	return r.started
}

// Add appends a step result.
func (r *RunReport) Add(result StepResult) {
	r.results = append(r.results, result)
}

// Results returns all step results in execution order.
func (r *RunReport) Results() []StepResult {
	return r.results
}

// Len returns the number of recorded results.
func (r *RunReport) Len() int {
	return len(r.results)
}

// Aborted reports whether the run stopped on a fatal failure.
func (r *RunReport) Aborted() bool {
	if len(r.results) == 0 {
		return false
	}
	return r.results[len(r.results)-1].Status() == ResultFailedFatal
}

// Summary returns aggregate statistics.
func (r *RunReport) Summary() RunSummary {
	summary := RunSummary{Total: len(r.results)}
	for _, result := range r.results {
		switch result.Status() {
		case ResultOK:
			summary.OK++
		case ResultSkipped:
			summary.Skipped++
		case ResultFailedNonfatal:
			summary.FailedNonfatal++
		case ResultFailedFatal:
			summary.FailedFatal++
		}
	}
	return summary
}
