package step

import "testing"

func TestStatus_NeedsApply(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusSatisfied, false},
		{StatusNeedsApply, true},
		{StatusUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.NeedsApply(); got != tt.want {
				t.Errorf("%s.NeedsApply() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
