package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/shipshape/internal/config"
	"github.com/felixgeelhaar/shipshape/internal/domain/step"
	"github.com/felixgeelhaar/shipshape/internal/ports"
	"github.com/felixgeelhaar/shipshape/internal/testutil/mocks"
)

type harness struct {
	out    *bytes.Buffer
	logger *mocks.Logger
	runner *mocks.CommandRunner
	fs     *mocks.FileSystem
	system *mocks.System
	app    *App
}

func newHarness() *harness {
	h := &harness{
		out:    &bytes.Buffer{},
		logger: mocks.NewLogger(),
		runner: mocks.NewCommandRunner(),
		fs:     mocks.NewFileSystem(),
		system: mocks.NewSystem(),
	}
	h.app = NewWithPorts(h.out, h.logger, h.runner, h.fs, h.system)
	return h
}

func TestBuildStepsOrder(t *testing.T) {
	h := newHarness()
	cfg := config.Default()

	steps := h.app.BuildSteps(cfg)

	want := []string{
		"apt:update",
		"apt:install:base",
		"apt:purge:legacy",
		"apt:repo:docker",
		"docker:engine",
		"tools:install:kubectl",
		"tools:install:doctl",
		"shell:default",
		"shell:framework",
		"shell:rc-block",
		"ssh:keypair",
	}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(steps), len(want))
	}
	for i, s := range steps {
		if s.ID().String() != want[i] {
			t.Errorf("step %d = %s, want %s", i, s.ID(), want[i])
		}
	}
}

func TestUpRequiresRoot(t *testing.T) {
	h := newHarness()
	h.system.SetEffectiveUserID(1000)

	report, err := h.app.Up(context.Background(), config.Default())
	if !errors.Is(err, step.ErrInsufficientPrivilege) {
		t.Fatalf("want ErrInsufficientPrivilege, got %v", err)
	}
	if report != nil {
		t.Error("no report should be produced without privilege")
	}
	if h.runner.CallCount() != 0 {
		t.Error("no commands should run without privilege")
	}
}

func TestUpAbortsOnFatalFailure(t *testing.T) {
	h := newHarness()
	// apt-get update is unregistered, so the first (fatal) step fails.

	report, err := h.app.Up(context.Background(), config.Default())
	if err == nil {
		t.Fatal("want error from aborted run")
	}
	if report == nil {
		t.Fatal("aborted runs still produce a report")
	}
	if !report.Aborted() {
		t.Error("report should be marked aborted")
	}
	if report.Len() != 1 {
		t.Errorf("only the failing step should be recorded, got %d", report.Len())
	}

	out := h.out.String()
	if !strings.Contains(out, "Run report") {
		t.Error("report rendering missing")
	}
	if !strings.Contains(out, "run aborted") {
		t.Error("abort notice missing")
	}
	if strings.Contains(out, "BEGIN PUBLIC KEY") {
		t.Error("public key must not print after an abort")
	}
}

// seedConverged arranges mocks so every step's precondition holds.
func seedConverged(t *testing.T, h *harness, cfg *config.Config) {
	t.Helper()

	h.runner.AddResult("apt-get", []string{"update"}, ports.CommandResult{ExitCode: 0})
	h.runner.AddResult("apt-get", []string{"upgrade", "-y"}, ports.CommandResult{ExitCode: 0})
	for _, pkg := range cfg.Packages.Install {
		h.runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", pkg},
			ports.CommandResult{ExitCode: 0, Stdout: "installed"})
	}
	for _, pkg := range cfg.Packages.Purge {
		h.runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", pkg},
			ports.CommandResult{ExitCode: 1})
	}
	if err := h.fs.WriteFile(cfg.DockerRepo.KeyringPath, []byte("keyring"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.fs.WriteFile(cfg.DockerRepo.SourcePath, []byte("deb ..."), 0o644); err != nil {
		t.Fatal(err)
	}
	h.runner.AddResult("docker", []string{"--version"}, ports.CommandResult{
		ExitCode: 0, Stdout: "Docker version 27.1.1, build 1234567\n",
	})
	h.runner.AddResult("getent", []string{"passwd", h.system.Username()}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   h.system.Username() + ":x:0:0:root:/root:" + cfg.Shell.Path + "\n",
	})
	if err := h.fs.MkdirAll(ports.ExpandPath(cfg.Shell.FrameworkDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := h.fs.WriteFile(ports.ExpandPath(cfg.SSHKeyPath), []byte("PRIVATE"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := h.fs.WriteFile(ports.ExpandPath(cfg.SSHKeyPath)+".pub",
		[]byte("ssh-rsa AAAAB3Nza test@host\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestUpConvergedHost(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	// Tool installs consult the live PATH and would download on a
	// miss; the converged scenario runs without them.
	cfg.Tools = nil
	seedConverged(t, h, cfg)

	report, err := h.app.Up(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if report.Aborted() {
		t.Fatal("converged host must not abort")
	}

	s := report.Summary()
	// apt:update and shell:rc-block always apply; the rest is skipped.
	if s.OK != 2 || s.Skipped != 7 || s.FailedNonfatal != 0 || s.FailedFatal != 0 {
		t.Errorf("unexpected summary %+v", s)
	}

	out := h.out.String()
	if !strings.Contains(out, "----- BEGIN PUBLIC KEY -----") {
		t.Error("public key banner missing")
	}
	if !strings.Contains(out, "ssh-rsa AAAAB3Nza") {
		t.Error("public key material missing")
	}
	if !strings.Contains(out, "----- END PUBLIC KEY -----") {
		t.Error("public key end banner missing")
	}
	if !strings.Contains(out, "Installed versions") {
		t.Error("version summary missing")
	}
	if !strings.Contains(out, "Docker version 27.1.1") {
		t.Error("docker version missing from summary")
	}
	// Components that never made it onto the host are tolerated.
	if !strings.Contains(out, "not found") {
		t.Error("missing components should read as not found")
	}
}

func TestUpReleaseMismatchIsAdvisory(t *testing.T) {
	h := newHarness()
	cfg := config.Default()
	cfg.Tools = nil
	seedConverged(t, h, cfg)
	h.system.SetOSRelease(ports.OSRelease{
		ID:        "debian",
		VersionID: "12",
		Codename:  "bookworm",
	})

	report, err := h.app.Up(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if report.Aborted() {
		t.Error("a release mismatch must not abort the run")
	}
	if !h.logger.HasMessage(ports.LevelWarn, "continuing anyway") {
		t.Error("mismatch warning missing")
	}
}

func TestPrintPublicKeyMissing(t *testing.T) {
	h := newHarness()
	h.app.PrintPublicKey(config.Default())

	out := h.out.String()
	if strings.Contains(out, "BEGIN PUBLIC KEY") {
		t.Error("banner must not print without a key")
	}
	if !strings.Contains(out, "public key unavailable") {
		t.Error("missing key should be reported")
	}
}

func TestPrintVersionsToleratesMissing(t *testing.T) {
	h := newHarness()
	h.runner.AddResult("zsh", []string{"--version"}, ports.CommandResult{
		ExitCode: 0, Stdout: "zsh 5.9 (x86_64-ubuntu-linux-gnu)\n",
	})

	h.app.PrintVersions(context.Background())

	out := h.out.String()
	if !strings.Contains(out, "zsh 5.9") {
		t.Error("present component version missing")
	}
	if !strings.Contains(out, "not found") {
		t.Error("absent components should read as not found")
	}
}
