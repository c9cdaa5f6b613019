package shell

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// writeStub places a fake executable on a private PATH dir.
func writeStub(t *testing.T, dir, name, script string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
}

// runHelper executes the kubeconfig helper function under sh with a
// controlled PATH and HOME, returning the exit code.
func runHelper(t *testing.T, binDir, home string, args ...string) int {
	t.Helper()

	script := filepath.Join(binDir, "helper.sh")
	if err := os.WriteFile(script, []byte(KubeconfigHelper+"\nkmerge \"$@\"\n"), 0o644); err != nil {
		t.Fatalf("write helper script: %v", err)
	}

	cmd := exec.Command("sh", append([]string{script}, args...)...)
	cmd.Env = append(os.Environ(),
		"PATH="+binDir+":"+os.Getenv("PATH"),
		"HOME="+home,
	)
	err := cmd.Run()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("run helper: %v", err)
	}
	return exitErr.ExitCode()
}

func TestKubeconfigHelperClusterNotFound(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	if _, err := exec.LookPath("awk"); err != nil {
		t.Skip("awk not available")
	}

	binDir := t.TempDir()
	home := t.TempDir()
	writeStub(t, binDir, "doctl", "#!/bin/sh\nexit 0\n")

	code := runHelper(t, binDir, home, "no-such-cluster")
	if code != 2 {
		t.Errorf("exit code = %d, want 2 for an unknown cluster", code)
	}

	// A failed lookup must not touch the credential directory.
	if _, err := os.Stat(filepath.Join(home, ".kube")); !os.IsNotExist(err) {
		t.Error("no credential file should be written for an unknown cluster")
	}
}

func TestKubeconfigHelperUsage(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	binDir := t.TempDir()
	home := t.TempDir()

	code := runHelper(t, binDir, home, "two", "args")
	if code != 64 {
		t.Errorf("exit code = %d, want 64 for a usage error", code)
	}
}
