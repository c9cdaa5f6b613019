package sequence

import (
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/shipshape/internal/domain/step"
)

func TestRunReport_Summary(t *testing.T) {
	report := NewRunReport()
	report.Add(NewStepResult(step.MustNewStepID("s:1"), ResultOK, nil))
	report.Add(NewStepResult(step.MustNewStepID("s:2"), ResultSkipped, nil))
	report.Add(NewStepResult(step.MustNewStepID("s:3"), ResultFailedNonfatal, errors.New("x")))
	report.Add(NewStepResult(step.MustNewStepID("s:4"), ResultOK, nil))

	summary := report.Summary()
	if summary.Total != 4 {
		t.Errorf("Total = %d, want 4", summary.Total)
	}
	if summary.OK != 2 || summary.Skipped != 1 || summary.FailedNonfatal != 1 || summary.FailedFatal != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRunReport_Aborted(t *testing.T) {
	report := NewRunReport()
	if report.Aborted() {
		t.Error("empty report should not be aborted")
	}

	report.Add(NewStepResult(step.MustNewStepID("s:1"), ResultOK, nil))
	if report.Aborted() {
		t.Error("report ending in ok should not be aborted")
	}

	report.Add(NewStepResult(step.MustNewStepID("s:2"), ResultFailedFatal, errors.New("x")))
	if !report.Aborted() {
		t.Error("report ending in failed-fatal should be aborted")
	}
}

func TestRunReport_RunID_Unique(t *testing.T) {
	a := NewRunReport()
	b := NewRunReport()
	if a.RunID() == b.RunID() {
		t.Error("each run should get a distinct ID")
	}
}

func TestStepResult_WithDuration(t *testing.T) {
	result := NewStepResult(step.MustNewStepID("s:1"), ResultOK, nil).
		WithDuration(42 * time.Millisecond)
	if result.Duration() != 42*time.Millisecond {
		t.Errorf("Duration() = %v, want 42ms", result.Duration())
	}
}

func TestResultStatus_Failed(t *testing.T) {
	if ResultOK.Failed() || ResultSkipped.Failed() {
		t.Error("ok/skipped should not report Failed")
	}
	if !ResultFailedNonfatal.Failed() || !ResultFailedFatal.Failed() {
		t.Error("failure statuses should report Failed")
	}
}
