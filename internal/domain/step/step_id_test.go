package step

import (
	"errors"
	"testing"
)

func TestNewStepID_Valid(t *testing.T) {
	tests := []string{
		"apt:update",
		"apt:install:base",
		"docker:engine",
		"tools:install:kubectl",
		"shell:rc-block",
		"ssh:keypair:id_rsa",
	}

	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			id, err := NewStepID(value)
			if err != nil {
				t.Fatalf("NewStepID(%q) error = %v", value, err)
			}
			if id.String() != value {
				t.Errorf("String() = %q, want %q", id.String(), value)
			}
		})
	}
}

func TestNewStepID_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  error
	}{
		{"empty", "", ErrEmptyStepID},
		{"whitespace", "   ", ErrEmptyStepID},
		{"leading colon", ":apt:update", ErrInvalidStepID},
		{"trailing colon", "apt:update:", ErrInvalidStepID},
		{"spaces", "apt update", ErrInvalidStepID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStepID(tt.value)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewStepID(%q) error = %v, want %v", tt.value, err, tt.want)
			}
		})
	}
}

func TestMustNewStepID_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNewStepID should panic on invalid input")
		}
	}()
	MustNewStepID("not valid!")
}

func TestStepID_Provider(t *testing.T) {
	id := MustNewStepID("apt:install:base")
	if id.Provider() != "apt" {
		t.Errorf("Provider() = %q, want apt", id.Provider())
	}
}

func TestStepID_Equals(t *testing.T) {
	a := MustNewStepID("apt:update")
	b := MustNewStepID("apt:update")
	c := MustNewStepID("apt:upgrade")

	if !a.Equals(b) {
		t.Error("identical IDs should be equal")
	}
	if a.Equals(c) {
		t.Error("different IDs should not be equal")
	}
}

func TestStepID_IsZero(t *testing.T) {
	var zero StepID
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	if MustNewStepID("apt:update").IsZero() {
		t.Error("constructed ID should not report IsZero")
	}
}
