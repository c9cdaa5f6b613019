// Package apt provides provisioning steps for Debian/Ubuntu package
// management: index refresh, base package installation, legacy package
// removal, and third-party repository registration.
package apt

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/shipshape/internal/domain/step"
	"github.com/felixgeelhaar/shipshape/internal/ports"
	"github.com/felixgeelhaar/shipshape/internal/provider/fetchutil"
	"github.com/felixgeelhaar/shipshape/internal/validation"
)

// noninteractive suppresses debconf prompts during unattended installs.
var noninteractive = []string{"DEBIAN_FRONTEND=noninteractive"}

// UpdateStep refreshes the package index and upgrades installed
// packages. It has no meaningful precondition and runs on every pass;
// the underlying operations are idempotent.
type UpdateStep struct {
	id     step.StepID
	runner ports.CommandRunner
}

// NewUpdateStep creates a new UpdateStep.
func NewUpdateStep(runner ports.CommandRunner) *UpdateStep {
	return &UpdateStep{
		id:     step.MustNewStepID("apt:update"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *UpdateStep) ID() step.StepID {
	return s.id
}

// Fatal reports that a broken package index aborts the run; every later
// install would fail in ambiguous ways.
func (s *UpdateStep) Fatal() bool {
	return true
}

// Check always requests apply; a refresh is never "already done".
func (s *UpdateStep) Check(_ step.RunContext) (step.Status, error) {
	return step.StatusNeedsApply, nil
}

// Apply refreshes the index and upgrades the installed set.
func (s *UpdateStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.RunWithEnv(ctx.Context(), noninteractive, "apt-get", "update")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get update failed: %s", result.Stderr)
	}

	result, err = s.runner.RunWithEnv(ctx.Context(), noninteractive, "apt-get", "upgrade", "-y")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get upgrade failed: %s", result.Stderr)
	}
	return nil
}

// InstallStep installs a fixed set of packages in one transaction.
type InstallStep struct {
	id       step.StepID
	packages []string
	runner   ports.CommandRunner
}

// NewInstallStep creates a new InstallStep.
func NewInstallStep(name string, packages []string, runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		id:       step.MustNewStepID("apt:install:" + name),
		packages: packages,
		runner:   runner,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() step.StepID {
	return s.id
}

// Fatal reports that missing base packages abort the run.
func (s *InstallStep) Fatal() bool {
	return true
}

// Check reports satisfied when every package is already installed.
func (s *InstallStep) Check(ctx step.RunContext) (step.Status, error) {
	for _, pkg := range s.packages {
		installed, err := s.isInstalled(ctx, pkg)
		if err != nil {
			return step.StatusUnknown, err
		}
		if !installed {
			return step.StatusNeedsApply, nil
		}
	}
	return step.StatusSatisfied, nil
}

// Apply installs the whole set. apt-get install is idempotent for
// packages already present.
func (s *InstallStep) Apply(ctx step.RunContext) error {
	for _, pkg := range s.packages {
		if err := validation.ValidatePackageName(pkg); err != nil {
			return fmt.Errorf("invalid package name: %w", err)
		}
	}

	args := append([]string{"install", "-y"}, s.packages...)
	result, err := s.runner.RunWithEnv(ctx.Context(), noninteractive, "apt-get", args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install failed: %s", result.Stderr)
	}
	return nil
}

func (s *InstallStep) isInstalled(ctx step.RunContext, pkg string) (bool, error) {
	result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${db:Status-Status}", pkg)
	if err != nil {
		return false, err
	}
	// dpkg-query exits 1 for unknown packages.
	if !result.Success() {
		return false, nil
	}
	return strings.Contains(result.Stdout, "installed"), nil
}

// PurgeStep removes legacy or conflicting packages. Removal is best
// effort: a package that fails to purge is logged and skipped, and the
// step itself never aborts the run.
type PurgeStep struct {
	id       step.StepID
	packages []string
	runner   ports.CommandRunner
}

// NewPurgeStep creates a new PurgeStep.
func NewPurgeStep(packages []string, runner ports.CommandRunner) *PurgeStep {
	return &PurgeStep{
		id:       step.MustNewStepID("apt:purge:legacy"),
		packages: packages,
		runner:   runner,
	}
}

// ID returns the step identifier.
func (s *PurgeStep) ID() step.StepID {
	return s.id
}

// Fatal reports that leftover legacy packages are tolerable.
func (s *PurgeStep) Fatal() bool {
	return false
}

// Check reports satisfied when none of the legacy packages remain.
func (s *PurgeStep) Check(ctx step.RunContext) (step.Status, error) {
	for _, pkg := range s.packages {
		result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${db:Status-Status}", pkg)
		if err != nil {
			return step.StatusUnknown, err
		}
		if result.Success() && strings.Contains(result.Stdout, "installed") {
			return step.StatusNeedsApply, nil
		}
	}
	return step.StatusSatisfied, nil
}

// Apply purges each package individually, swallowing per-package
// failures so one held package cannot block the others.
func (s *PurgeStep) Apply(ctx step.RunContext) error {
	for _, pkg := range s.packages {
		if err := validation.ValidatePackageName(pkg); err != nil {
			return fmt.Errorf("invalid package name: %w", err)
		}

		result, err := s.runner.RunWithEnv(ctx.Context(), noninteractive, "apt-get", "purge", "-y", pkg)
		if err != nil || !result.Success() {
			ctx.Logger().Warn(ctx.Context(), "could not purge package, continuing",
				ports.F("package", pkg))
			continue
		}
	}
	return nil
}

// Repo describes a third-party apt repository.
type Repo struct {
	Name        string `yaml:"name"`        // e.g. "docker"
	KeyURL      string `yaml:"keyUrl"`      // armored signing key location
	KeyringPath string `yaml:"keyringPath"` // e.g. /etc/apt/keyrings/docker.gpg
	SourcePath  string `yaml:"sourcePath"`  // e.g. /etc/apt/sources.list.d/docker.list
	// Line is the source entry with $ARCH and $CODENAME placeholders,
	// e.g. "deb [arch=$ARCH signed-by=/etc/apt/keyrings/docker.gpg]
	// https://download.docker.com/linux/ubuntu $CODENAME stable".
	Line string `yaml:"line"`
}

// RepoStep registers a third-party repository: fetches the signing key,
// dearmors it into the keyring, and writes the source list entry.
type RepoStep struct {
	id     step.StepID
	repo   Repo
	runner ports.CommandRunner
	fs     ports.FileSystem
	system ports.System
	fetch  func(ctx context.Context, url string) ([]byte, error)
}

// NewRepoStep creates a new RepoStep.
func NewRepoStep(repo Repo, runner ports.CommandRunner, fs ports.FileSystem, system ports.System) *RepoStep {
	return &RepoStep{
		id:     step.MustNewStepID("apt:repo:" + repo.Name),
		repo:   repo,
		runner: runner,
		fs:     fs,
		system: system,
		fetch:  fetchutil.Fetch,
	}
}

// ID returns the step identifier.
func (s *RepoStep) ID() step.StepID {
	return s.id
}

// Fatal reports that a missing repository aborts the run; the packages
// that reference it cannot install without it.
func (s *RepoStep) Fatal() bool {
	return true
}

// Check reports satisfied when both the keyring and the source list
// entry already exist.
func (s *RepoStep) Check(_ step.RunContext) (step.Status, error) {
	if s.fs.Exists(s.repo.KeyringPath) && s.fs.Exists(s.repo.SourcePath) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply fetches and installs the signing key, then writes the source
// list. The temporary key file is removed on every exit path.
func (s *RepoStep) Apply(ctx step.RunContext) error {
	if err := validation.ValidateHTTPSURL(s.repo.KeyURL); err != nil {
		return fmt.Errorf("invalid key URL: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.repo.KeyringPath), 0o755); err != nil {
		return fmt.Errorf("create keyring directory: %w", err)
	}

	tmp, err := s.fs.TempDir("shipshape-apt-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		_ = s.fs.RemoveAll(tmp)
	}()

	key, err := s.fetch(ctx.Context(), s.repo.KeyURL)
	if err != nil {
		return fmt.Errorf("fetch signing key: %w", err)
	}

	keyFile := tmp + "/" + s.repo.Name + ".asc"
	if err := s.fs.WriteFile(keyFile, key, 0o644); err != nil {
		return fmt.Errorf("write signing key: %w", err)
	}

	result, err := s.runner.Run(ctx.Context(), "gpg", "--dearmor", "--yes", "-o", s.repo.KeyringPath, keyFile)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("gpg --dearmor failed: %s", result.Stderr)
	}

	line := s.sourceLine()
	if err := s.fs.WriteFile(s.repo.SourcePath, []byte(line+"\n"), 0o644); err != nil {
		return fmt.Errorf("write source list: %w", err)
	}

	// New source requires a fresh index before dependent installs.
	result, err = s.runner.RunWithEnv(ctx.Context(), noninteractive, "apt-get", "update")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get update after repo add failed: %s", result.Stderr)
	}
	return nil
}

// sourceLine substitutes the host architecture and codename into the
// configured source entry.
func (s *RepoStep) sourceLine() string {
	line := s.repo.Line

	arch := debArch(s.system.Arch())
	line = strings.ReplaceAll(line, "$ARCH", arch)

	if release, err := s.system.OSRelease(); err == nil {
		line = strings.ReplaceAll(line, "$CODENAME", release.Codename)
	}
	return line
}

// debArch maps Go architecture names to dpkg architecture names.
func debArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "amd64"
	case "arm64":
		return "arm64"
	case "arm":
		return "armhf"
	case "386":
		return "i386"
	default:
		return goarch
	}
}
