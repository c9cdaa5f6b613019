package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/shipshape/internal/domain/hostinfo"
	"github.com/felixgeelhaar/shipshape/internal/domain/step"
	"github.com/felixgeelhaar/shipshape/internal/ports"
)

// Runner executes provisioning steps in declared order.
//
// Before any step runs it verifies the calling identity is privileged
// and, when an expected release is configured, emits an advisory
// warning on mismatch. A failing fatal step aborts the run; a failing
// non-fatal step is recorded and the run continues.
type Runner struct {
	system   ports.System
	logger   ports.Logger
	expected hostinfo.Expected
}

// NewRunner creates a new Runner.
func NewRunner(system ports.System, logger ports.Logger) *Runner {
	return &Runner{
		system: system,
		logger: logger,
	}
}

// WithExpectedRelease returns a Runner that warns when the detected
// host release does not match. The check is advisory and never blocks.
func (r *Runner) WithExpectedRelease(expected hostinfo.Expected) *Runner {
	return &Runner{
		system:   r.system,
		logger:   r.logger,
		expected: expected,
	}
}

// Run executes all steps in order and returns the run report.
//
// If the privilege gate fails, the returned error wraps
// step.ErrInsufficientPrivilege and no step is executed. A fatal step
// failure is reported both in the returned report and as an error;
// steps after it are never attempted.
func (r *Runner) Run(ctx context.Context, steps []step.Step) (*RunReport, error) {
	if r.system.EffectiveUserID() != 0 {
		return nil, fmt.Errorf("uid %d: %w", r.system.EffectiveUserID(), step.ErrInsufficientPrivilege)
	}

	report := NewRunReport()
	logger := r.logger.With(ports.F("run", report.RunID().String()))

	r.checkRelease(ctx, logger)

	runCtx := step.NewRunContext(ctx).WithLogger(logger)

	for _, s := range steps {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		result := r.runStep(runCtx, logger, s)
		report.Add(result)

		if result.Status() == ResultFailedFatal {
			logger.Error(ctx, "fatal step failed, aborting run",
				ports.F("step", s.ID().String()),
				ports.F("error", result.Error()))
			return report, step.NewApplyFailedError(s.ID().String(), result.Error())
		}
	}

	return report, nil
}

// checkRelease performs the advisory environment-compatibility check.
func (r *Runner) checkRelease(ctx context.Context, logger ports.Logger) {
	if r.expected.IsZero() {
		return
	}
	host := hostinfo.Detect(r.system)
	if !r.expected.Matches(host) {
		logger.Warn(ctx, r.expected.MismatchWarning(host))
	}
}

// runStep evaluates one step's precondition and, if needed, applies it.
func (r *Runner) runStep(runCtx step.RunContext, logger ports.Logger, s step.Step) StepResult {
	ctx := runCtx.Context()
	id := s.ID()

	status, err := s.Check(runCtx)
	if err != nil {
		// A failed precondition check is not a failed step: applying a
		// satisfied step is a no-op, so fall through to Apply.
		logger.Warn(ctx, "precondition check failed, applying anyway",
			ports.F("step", id.String()),
			ports.F("error", err))
		status = step.StatusUnknown
	}

	if !status.NeedsApply() {
		logger.Info(ctx, "already satisfied, skipping", ports.F("step", id.String()))
		return NewStepResult(id, ResultSkipped, nil)
	}

	logger.Info(ctx, "applying", ports.F("step", id.String()))

	start := time.Now()
	applyErr := s.Apply(runCtx)
	duration := time.Since(start)

	if applyErr != nil {
		if s.Fatal() {
			return NewStepResult(id, ResultFailedFatal, applyErr).WithDuration(duration)
		}
		logger.Warn(ctx, "step failed, continuing",
			ports.F("step", id.String()),
			ports.F("error", applyErr))
		return NewStepResult(id, ResultFailedNonfatal, applyErr).WithDuration(duration)
	}

	logger.Info(ctx, "done",
		ports.F("step", id.String()),
		ports.F("duration", duration.Round(time.Millisecond)))
	return NewStepResult(id, ResultOK, nil).WithDuration(duration)
}
