package app

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// timePrecision rounds reported durations to something readable.
const timePrecision = time.Millisecond

// versionProbe asks one installed component for its version.
type versionProbe struct {
	name    string
	command string
	args    []string
}

// probes lists the components worth confirming after a run. Probes are
// advisory: a component that is absent or broken shows up as
// "not found" without affecting the exit status.
var probes = []versionProbe{
	{name: "docker", command: "docker", args: []string{"--version"}},
	{name: "kubectl", command: "kubectl", args: []string{"version", "--client", "--output=yaml"}},
	{name: "doctl", command: "doctl", args: []string{"version"}},
	{name: "git", command: "git", args: []string{"--version"}},
	{name: "zsh", command: "zsh", args: []string{"--version"}},
}

// PrintVersions reports the version of each provisioned component,
// tolerating components that never made it onto the host.
func (a *App) PrintVersions(ctx context.Context) {
	fmt.Fprintf(a.out, "\n%s\n", styleHeading.Render("Installed versions"))
	for _, p := range probes {
		fmt.Fprintf(a.out, "  %-10s %s\n", p.name, a.probeVersion(ctx, p))
	}
}

func (a *App) probeVersion(ctx context.Context, p versionProbe) string {
	result, err := a.runner.Run(ctx, p.command, p.args...)
	if err != nil || !result.Success() {
		return "not found"
	}

	// First line keeps the table scannable; multi-line output like
	// kubectl's client block collapses to its lead line.
	line, _, _ := strings.Cut(strings.TrimSpace(result.Stdout), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "not found"
	}
	return line
}
