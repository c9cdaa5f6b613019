// Package shell provides provisioning steps for the interactive shell:
// switching the login shell, installing a shell framework, and keeping
// a marker-guarded helper block in the user's rc file.
package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/shipshape/internal/domain/step"
	"github.com/felixgeelhaar/shipshape/internal/ports"
	"github.com/felixgeelhaar/shipshape/internal/provider/fetchutil"
	"github.com/felixgeelhaar/shipshape/internal/validation"
)

// LoginShellStep changes a user's login shell. Failure leaves the host
// usable with its old shell, so the step is non-fatal.
type LoginShellStep struct {
	id        step.StepID
	user      string
	shellPath string
	runner    ports.CommandRunner
}

// NewLoginShellStep creates a step that switches user's login shell to
// shellPath.
func NewLoginShellStep(user, shellPath string, runner ports.CommandRunner) *LoginShellStep {
	return &LoginShellStep{
		id:        step.MustNewStepID("shell:default"),
		user:      user,
		shellPath: shellPath,
		runner:    runner,
	}
}

// ID returns the step identifier.
func (s *LoginShellStep) ID() step.StepID {
	return s.id
}

// Fatal reports that a failed shell switch does not abort the run.
func (s *LoginShellStep) Fatal() bool {
	return false
}

// Check looks the user's current login shell up in the passwd database.
func (s *LoginShellStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "getent", "passwd", s.user)
	if err != nil {
		return step.StatusUnknown, step.NewCheckFailedError(s.id.String(), err)
	}
	if !result.Success() {
		return step.StatusUnknown, step.NewCheckFailedError(s.id.String(),
			fmt.Errorf("getent passwd %s: %s", s.user, result.Stderr))
	}

	// passwd(5): the login shell is the seventh colon-separated field.
	fields := strings.Split(strings.TrimSpace(result.Stdout), ":")
	if len(fields) < 7 {
		return step.StatusUnknown, step.NewCheckFailedError(s.id.String(),
			fmt.Errorf("malformed passwd entry for %s", s.user))
	}
	if fields[6] == s.shellPath {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply switches the login shell with chsh.
func (s *LoginShellStep) Apply(ctx step.RunContext) error {
	if err := validation.ValidateShellPath(s.shellPath); err != nil {
		return err
	}

	result, err := s.runner.Run(ctx.Context(), "chsh", "-s", s.shellPath, s.user)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("chsh -s %s %s failed: %s", s.shellPath, s.user, result.Stderr)
	}
	return nil
}

// frameworkEnv keeps the framework installer from launching the new
// shell, switching the login shell itself, or replacing an existing rc
// file mid-run.
var frameworkEnv = []string{"RUNZSH=no", "CHSH=no", "KEEP_ZSHRC=yes"}

// FrameworkStep installs a shell configuration framework by downloading
// its installer script and running it unattended. Non-fatal: the host
// works without the framework.
type FrameworkStep struct {
	id           step.StepID
	installerURL string
	targetDir    string
	runner       ports.CommandRunner
	fs           ports.FileSystem
	fetch        func(ctx context.Context, url string) ([]byte, error)
}

// NewFrameworkStep creates a step that installs the framework whose
// presence is signalled by targetDir (for example ~/.oh-my-zsh).
func NewFrameworkStep(installerURL, targetDir string, runner ports.CommandRunner, fs ports.FileSystem) *FrameworkStep {
	return &FrameworkStep{
		id:           step.MustNewStepID("shell:framework"),
		installerURL: installerURL,
		targetDir:    targetDir,
		runner:       runner,
		fs:           fs,
		fetch:        fetchutil.Fetch,
	}
}

// ID returns the step identifier.
func (s *FrameworkStep) ID() step.StepID {
	return s.id
}

// Fatal reports that a failed framework install does not abort the run.
func (s *FrameworkStep) Fatal() bool {
	return false
}

// Check treats an existing target directory as an installed framework.
func (s *FrameworkStep) Check(_ step.RunContext) (step.Status, error) {
	if s.fs.Exists(ports.ExpandPath(s.targetDir)) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply downloads the installer into a scoped temporary directory and
// runs it with sh. The directory is removed on every exit path.
func (s *FrameworkStep) Apply(ctx step.RunContext) error {
	script, err := s.fetch(ctx.Context(), s.installerURL)
	if err != nil {
		return fmt.Errorf("fetch installer: %w", err)
	}

	tmp, err := s.fs.TempDir("shipshape-shell-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		_ = s.fs.RemoveAll(tmp)
	}()

	scriptPath := tmp + "/install.sh"
	if err := s.fs.WriteFile(scriptPath, script, 0o700); err != nil {
		return fmt.Errorf("write installer: %w", err)
	}

	result, err := s.runner.RunWithEnv(ctx.Context(), frameworkEnv, "sh", scriptPath)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("framework installer failed: %s", result.Stderr)
	}
	return nil
}

// RCBlockStep keeps a marker-guarded block of shell code in the user's
// rc file. The opening marker is the precondition, so the block is
// appended at most once; re-runs with the marker present skip entirely.
type RCBlockStep struct {
	id      step.StepID
	rcPath  string
	section string
	block   string
	fs      ports.FileSystem
}

// NewRCBlockStep creates a step that injects block under the named
// section's markers in the rc file at rcPath.
func NewRCBlockStep(rcPath, section, block string, fs ports.FileSystem) *RCBlockStep {
	return &RCBlockStep{
		id:      step.MustNewStepID("shell:rc-block"),
		rcPath:  rcPath,
		section: section,
		block:   block,
		fs:      fs,
	}
}

// ID returns the step identifier.
func (s *RCBlockStep) ID() step.StepID {
	return s.id
}

// Fatal reports that a failed rc edit does not abort the run.
func (s *RCBlockStep) Fatal() bool {
	return false
}

// Check looks for the section's opening marker in the rc file. A
// missing rc file simply needs apply.
func (s *RCBlockStep) Check(_ step.RunContext) (step.Status, error) {
	path := ports.ExpandPath(s.rcPath)
	if !s.fs.Exists(path) {
		return step.StatusNeedsApply, nil
	}
	content, err := s.fs.ReadFile(path)
	if err != nil {
		return step.StatusUnknown, step.NewCheckFailedError(s.id.String(), err)
	}
	if HasManagedBlock(string(content), s.section) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply writes the managed block, creating the rc file if needed and
// preserving everything outside the markers.
func (s *RCBlockStep) Apply(_ step.RunContext) error {
	path := ports.ExpandPath(s.rcPath)

	var content string
	if s.fs.Exists(path) {
		existing, err := s.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		content = string(existing)
	}

	updated := WriteManagedBlock(content, s.section, s.block)
	if err := s.fs.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
