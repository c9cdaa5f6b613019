// Package docker provides the container engine installation step.
package docker

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/shipshape/internal/domain/step"
	"github.com/felixgeelhaar/shipshape/internal/ports"
)

var noninteractive = []string{"DEBIAN_FRONTEND=noninteractive"}

// enginePackages is the Docker CE package set installed from the
// vendor repository. Requires the apt repo step to have run first.
var enginePackages = []string{
	"docker-ce",
	"docker-ce-cli",
	"containerd.io",
	"docker-buildx-plugin",
	"docker-compose-plugin",
}

// EngineStep installs the Docker engine from the vendor repository.
// It must be ordered after the repository registration step.
type EngineStep struct {
	id     step.StepID
	runner ports.CommandRunner
}

// NewEngineStep creates a new EngineStep.
func NewEngineStep(runner ports.CommandRunner) *EngineStep {
	return &EngineStep{
		id:     step.MustNewStepID("docker:engine"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *EngineStep) ID() step.StepID {
	return s.id
}

// Fatal reports that a missing container runtime aborts the run.
func (s *EngineStep) Fatal() bool {
	return true
}

// Check reports satisfied when the docker client responds.
func (s *EngineStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "docker", "--version")
	if err != nil {
		// Command not found means the engine needs to be installed.
		return step.StatusNeedsApply, nil //nolint:nilerr // intentional: command failure = needs apply
	}
	if result.Success() && strings.Contains(result.Stdout, "Docker version") {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply installs the engine package set and enables the service.
func (s *EngineStep) Apply(ctx step.RunContext) error {
	args := append([]string{"install", "-y"}, enginePackages...)
	result, err := s.runner.RunWithEnv(ctx.Context(), noninteractive, "apt-get", args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("docker engine install failed: %s", result.Stderr)
	}

	result, err = s.runner.Run(ctx.Context(), "systemctl", "enable", "--now", "docker")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("enable docker service failed: %s", result.Stderr)
	}
	return nil
}
