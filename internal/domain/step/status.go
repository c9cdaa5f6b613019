package step

// Status represents the checked state of a step.
type Status string

const (
	// StatusSatisfied indicates the step's effect is already present.
	StatusSatisfied Status = "satisfied"
	// StatusNeedsApply indicates the step needs to be applied.
	StatusNeedsApply Status = "needs-apply"
	// StatusUnknown indicates the step's state could not be determined.
	// The sequencer treats unknown as needs-apply: applying a satisfied
	// step is a no-op, skipping an unsatisfied one is not.
	StatusUnknown Status = "unknown"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// NeedsApply reports whether the sequencer should run the step's action.
func (s Status) NeedsApply() bool {
	return s != StatusSatisfied
}
