package shell

import (
	"context"
	"strings"
	"testing"

	"github.com/felixgeelhaar/shipshape/internal/domain/step"
	"github.com/felixgeelhaar/shipshape/internal/ports"
	"github.com/felixgeelhaar/shipshape/internal/testutil/mocks"
)

func testCtx() step.RunContext {
	return step.NewRunContext(context.Background())
}

func passwdEntry(user, shell string) string {
	return user + ":x:1000:1000:" + user + ":/home/" + user + ":" + shell + "\n"
}

func TestLoginShellCheckSatisfied(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("getent", []string{"passwd", "deploy"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   passwdEntry("deploy", "/usr/bin/zsh"),
	})

	s := NewLoginShellStep("deploy", "/usr/bin/zsh", runner)
	status, err := s.Check(testCtx())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != step.StatusSatisfied {
		t.Errorf("want StatusSatisfied, got %v", status)
	}
}

func TestLoginShellCheckNeedsApply(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("getent", []string{"passwd", "deploy"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   passwdEntry("deploy", "/bin/bash"),
	})

	s := NewLoginShellStep("deploy", "/usr/bin/zsh", runner)
	status, err := s.Check(testCtx())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != step.StatusNeedsApply {
		t.Errorf("want StatusNeedsApply, got %v", status)
	}
}

func TestLoginShellCheckMalformedEntry(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("getent", []string{"passwd", "deploy"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "deploy:x:1000\n",
	})

	s := NewLoginShellStep("deploy", "/usr/bin/zsh", runner)
	status, err := s.Check(testCtx())
	if err == nil {
		t.Fatal("want error for malformed passwd entry")
	}
	if status != step.StatusUnknown {
		t.Errorf("want StatusUnknown, got %v", status)
	}
}

func TestLoginShellApply(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("chsh", []string{"-s", "/usr/bin/zsh", "deploy"}, ports.CommandResult{ExitCode: 0})

	s := NewLoginShellStep("deploy", "/usr/bin/zsh", runner)
	if err := s.Apply(testCtx()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !runner.WasCalled("chsh", "-s", "/usr/bin/zsh", "deploy") {
		t.Error("chsh was not invoked")
	}
}

func TestLoginShellApplyRejectsUnsafePath(t *testing.T) {
	runner := mocks.NewCommandRunner()
	s := NewLoginShellStep("deploy", "/bin/zsh; rm -rf /", runner)
	if err := s.Apply(testCtx()); err == nil {
		t.Fatal("want validation error for unsafe shell path")
	}
	if runner.CallCount() != 0 {
		t.Error("no command should run for an invalid shell path")
	}
}

func TestLoginShellNotFatal(t *testing.T) {
	s := NewLoginShellStep("deploy", "/usr/bin/zsh", mocks.NewCommandRunner())
	if s.Fatal() {
		t.Error("login shell step must be non-fatal")
	}
}

func TestFrameworkCheck(t *testing.T) {
	fs := mocks.NewFileSystem()
	s := NewFrameworkStep("https://example.com/install.sh", "/home/deploy/.oh-my-zsh",
		mocks.NewCommandRunner(), fs)

	status, err := s.Check(testCtx())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != step.StatusNeedsApply {
		t.Errorf("want StatusNeedsApply, got %v", status)
	}

	if err := fs.MkdirAll("/home/deploy/.oh-my-zsh", 0o755); err != nil {
		t.Fatal(err)
	}
	status, err = s.Check(testCtx())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != step.StatusSatisfied {
		t.Errorf("want StatusSatisfied, got %v", status)
	}
}

func TestFrameworkApply(t *testing.T) {
	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("sh", []string{"/tmp/shipshape-shell-1/install.sh"}, ports.CommandResult{ExitCode: 0})

	s := NewFrameworkStep("https://example.com/install.sh", "/home/deploy/.oh-my-zsh", runner, fs)
	s.fetch = func(_ context.Context, url string) ([]byte, error) {
		return []byte("#!/bin/sh\necho installing\n"), nil
	}

	if err := s.Apply(testCtx()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	calls := runner.Calls()
	if len(calls) != 1 {
		t.Fatalf("want 1 command, got %d", len(calls))
	}
	var sawEnv bool
	for _, e := range calls[0].Env {
		if e == "RUNZSH=no" {
			sawEnv = true
		}
	}
	if !sawEnv {
		t.Error("installer should run with RUNZSH=no")
	}
	if fs.Exists("/tmp/shipshape-shell-1/install.sh") {
		t.Error("temp installer should be removed after apply")
	}
}

func TestFrameworkApplyInstallerFailure(t *testing.T) {
	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("sh", []string{"/tmp/shipshape-shell-1/install.sh"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "no network",
	})

	s := NewFrameworkStep("https://example.com/install.sh", "/home/deploy/.oh-my-zsh", runner, fs)
	s.fetch = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("#!/bin/sh\nexit 1\n"), nil
	}

	err := s.Apply(testCtx())
	if err == nil {
		t.Fatal("want error when installer exits non-zero")
	}
	if !strings.Contains(err.Error(), "no network") {
		t.Errorf("error should carry installer stderr, got %v", err)
	}
	if fs.Exists("/tmp/shipshape-shell-1/install.sh") {
		t.Error("temp installer should be removed on failure too")
	}
}

func TestRCBlockLifecycle(t *testing.T) {
	fs := mocks.NewFileSystem()
	s := NewRCBlockStep("/home/deploy/.zshrc", KubeconfigSection, KubeconfigHelper, fs)

	status, err := s.Check(testCtx())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != step.StatusNeedsApply {
		t.Errorf("missing rc file should need apply, got %v", status)
	}

	if err := s.Apply(testCtx()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	content, err := fs.ReadFile("/home/deploy/.zshrc")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(content), "kmerge()") {
		t.Error("helper function missing from rc file")
	}

	status, err = s.Check(testCtx())
	if err != nil {
		t.Fatalf("Check after apply: %v", err)
	}
	if status != step.StatusSatisfied {
		t.Errorf("marker present should be satisfied, got %v", status)
	}
}

func TestRCBlockSecondApplyLeavesOneMarker(t *testing.T) {
	fs := mocks.NewFileSystem()
	s := NewRCBlockStep("/home/deploy/.zshrc", KubeconfigSection, KubeconfigHelper, fs)

	if err := s.Apply(testCtx()); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if err := s.Apply(testCtx()); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	content, err := fs.ReadFile("/home/deploy/.zshrc")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if n := strings.Count(string(content), StartMarker(KubeconfigSection)); n != 1 {
		t.Errorf("want exactly one marker after two applies, got %d", n)
	}
}

func TestRCBlockPreservesUserContent(t *testing.T) {
	fs := mocks.NewFileSystem()
	if err := fs.WriteFile("/home/deploy/.zshrc", []byte("export EDITOR=vim\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewRCBlockStep("/home/deploy/.zshrc", KubeconfigSection, KubeconfigHelper, fs)
	if err := s.Apply(testCtx()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	content, err := fs.ReadFile("/home/deploy/.zshrc")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(content), "export EDITOR=vim\n") {
		t.Error("user content should survive the injection")
	}
}
