// Package step defines the provisioning step contract.
//
// A step is an idempotent unit of host mutation: Check reports whether
// the step's effect is already present, Apply produces it. Steps never
// reverse the effects of other steps, and re-running a satisfied step
// is a no-op.
package step

// Step represents one idempotent provisioning unit.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// Fatal reports whether an Apply failure aborts the whole run.
	// Non-fatal failures are recorded and the run continues.
	Fatal() bool

	// Check determines the current status of this step.
	// Returns StatusSatisfied if no action is needed, StatusNeedsApply
	// if the step's effect is missing.
	Check(ctx RunContext) (Status, error)

	// Apply performs the step's mutation. After a successful Apply the
	// precondition holds, so a re-run reports StatusSatisfied.
	Apply(ctx RunContext) error
}
