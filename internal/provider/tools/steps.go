// Package tools installs command-line tools using the
// download-and-place pattern: resolve a version from a remote endpoint,
// download the archive matching the host architecture, extract, and
// install the executable into a fixed system-wide directory.
package tools

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/felixgeelhaar/shipshape/internal/domain/step"
	"github.com/felixgeelhaar/shipshape/internal/ports"
	"github.com/felixgeelhaar/shipshape/internal/provider/fetchutil"
)

// DefaultInstallDir is where tool binaries are placed.
const DefaultInstallDir = "/usr/local/bin"

// Tool describes one downloadable CLI tool.
type Tool struct {
	// Name labels the tool and its step ID.
	Name string `yaml:"name"`
	// BinName is the executable name looked up on PATH. Defaults to Name.
	BinName string `yaml:"binName"`
	// Version pins a version ("v1.30.4"). Empty means resolve from
	// VersionURL.
	Version string `yaml:"version"`
	// VersionURL is an endpoint answering with a single version line.
	VersionURL string `yaml:"versionUrl"`
	// URL is the download location, with $VERSION ("v1.2.3"), $RAWVERSION
	// ("1.2.3"), $OS and $ARCH placeholders.
	URL string `yaml:"url"`
	// TarMember names the file to extract when URL points at a .tar.gz.
	// Empty means the download is the bare executable.
	TarMember string `yaml:"tarMember"`
	// InstallDir overrides DefaultInstallDir.
	InstallDir string `yaml:"installDir"`
}

// Binary returns the executable name.
func (t Tool) Binary() string {
	if t.BinName != "" {
		return t.BinName
	}
	return t.Name
}

// InstallPath returns the final location of the executable.
func (t Tool) InstallPath() string {
	dir := t.InstallDir
	if dir == "" {
		dir = DefaultInstallDir
	}
	return filepath.Join(dir, t.Binary())
}

// ArtifactURL substitutes version, OS and architecture into the
// download URL template.
func (t Tool) ArtifactURL(version, arch string) string {
	url := t.URL
	url = strings.ReplaceAll(url, "$VERSION", version)
	url = strings.ReplaceAll(url, "$RAWVERSION", strings.TrimPrefix(version, "v"))
	url = strings.ReplaceAll(url, "$OS", "linux")
	url = strings.ReplaceAll(url, "$ARCH", arch)
	return url
}

// InstallStep downloads and places one tool executable.
type InstallStep struct {
	id   step.StepID
	tool Tool
	arch string
	fs   ports.FileSystem

	fetch       func(ctx context.Context, url string) ([]byte, error)
	fetchString func(ctx context.Context, url string) (string, error)
	lookPath    func(binary string) (string, error)
}

// NewInstallStep creates a new InstallStep for the given host arch.
func NewInstallStep(tool Tool, arch string, fs ports.FileSystem) *InstallStep {
	return &InstallStep{
		id:          step.MustNewStepID("tools:install:" + tool.Name),
		tool:        tool,
		arch:        arch,
		fs:          fs,
		fetch:       fetchutil.Fetch,
		fetchString: fetchutil.FetchString,
		lookPath:    exec.LookPath,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() step.StepID {
	return s.id
}

// Fatal reports that a missing CLI tool does not block the rest of the
// provisioning run.
func (s *InstallStep) Fatal() bool {
	return false
}

// Check reports satisfied when the executable is already on the search
// path or at its install location.
func (s *InstallStep) Check(_ step.RunContext) (step.Status, error) {
	if _, err := s.lookPath(s.tool.Binary()); err == nil {
		return step.StatusSatisfied, nil
	}
	if s.fs.Exists(s.tool.InstallPath()) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply resolves the version, downloads the matching artifact, stages
// the executable in a scoped temporary directory, and moves it into
// place. The temporary directory is removed on every exit path.
func (s *InstallStep) Apply(ctx step.RunContext) error {
	version, err := s.resolveVersion(ctx)
	if err != nil {
		return err
	}

	url := s.tool.ArtifactURL(version, s.arch)
	ctx.Logger().Info(ctx.Context(), "downloading",
		ports.F("tool", s.tool.Name),
		ports.F("version", version))

	tmp, err := s.fs.TempDir("shipshape-tool-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		_ = s.fs.RemoveAll(tmp)
	}()

	data, err := s.fetch(ctx.Context(), url)
	if err != nil {
		return fmt.Errorf("download %s: %w", s.tool.Name, err)
	}
	if s.tool.TarMember != "" {
		data, err = extractMember(data, s.tool.TarMember)
		if err != nil {
			return err
		}
	}

	staged := tmp + "/" + s.tool.Binary()
	if err := s.fs.WriteFile(staged, data, 0o755); err != nil {
		return fmt.Errorf("stage binary: %w", err)
	}

	dest := s.tool.InstallPath()
	if err := s.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create install dir: %w", err)
	}
	if err := s.installFile(staged, dest); err != nil {
		return err
	}
	return s.fs.Chmod(dest, 0o755)
}

// resolveVersion returns the pinned version or resolves the latest one
// from the version endpoint. The result must be valid semver.
func (s *InstallStep) resolveVersion(ctx step.RunContext) (string, error) {
	version := s.tool.Version
	if version == "" {
		if s.tool.VersionURL == "" {
			return "", fmt.Errorf("tool %s: no version pinned and no version endpoint", s.tool.Name)
		}
		resolved, err := s.fetchString(ctx.Context(), s.tool.VersionURL)
		if err != nil {
			return "", fmt.Errorf("resolve %s version: %w", s.tool.Name, err)
		}
		version = resolved
	}

	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return "", fmt.Errorf("tool %s: resolved version %q is not valid semver", s.tool.Name, version)
	}
	return version, nil
}

// installFile moves staged into dest, falling back to copy when the
// temp dir is on a different filesystem.
func (s *InstallStep) installFile(staged, dest string) error {
	if err := s.fs.Rename(staged, dest); err == nil {
		return nil
	}

	data, err := s.fs.ReadFile(staged)
	if err != nil {
		return fmt.Errorf("read staged binary: %w", err)
	}
	if err := s.fs.WriteFile(dest, data, 0o755); err != nil {
		return fmt.Errorf("install %s: %w", dest, err)
	}
	return nil
}
