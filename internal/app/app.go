// Package app wires the adapters to the step providers and drives a
// provisioning run end to end.
package app

import (
	"context"
	"io"

	"github.com/felixgeelhaar/shipshape/internal/adapters/command"
	"github.com/felixgeelhaar/shipshape/internal/adapters/filesystem"
	"github.com/felixgeelhaar/shipshape/internal/adapters/logging"
	"github.com/felixgeelhaar/shipshape/internal/adapters/sysinfo"
	"github.com/felixgeelhaar/shipshape/internal/config"
	"github.com/felixgeelhaar/shipshape/internal/domain/hostinfo"
	"github.com/felixgeelhaar/shipshape/internal/domain/sequence"
	"github.com/felixgeelhaar/shipshape/internal/domain/step"
	"github.com/felixgeelhaar/shipshape/internal/ports"
	"github.com/felixgeelhaar/shipshape/internal/provider/apt"
	"github.com/felixgeelhaar/shipshape/internal/provider/docker"
	"github.com/felixgeelhaar/shipshape/internal/provider/shell"
	"github.com/felixgeelhaar/shipshape/internal/provider/ssh"
	"github.com/felixgeelhaar/shipshape/internal/provider/tools"
)

// App holds the wired ports and the output stream for human-facing
// reports.
type App struct {
	out    io.Writer
	logger ports.Logger
	runner ports.CommandRunner
	fs     ports.FileSystem
	system ports.System
}

// New creates an App backed by the real host adapters, logging to out.
func New(out io.Writer) *App {
	return &App{
		out:    out,
		logger: logging.NewConsoleLogger(logging.WithOutput(out)),
		runner: command.NewRealRunner(),
		fs:     filesystem.NewRealFS(),
		system: sysinfo.NewRealSystem(),
	}
}

// NewWithPorts creates an App with explicit ports.
func NewWithPorts(out io.Writer, logger ports.Logger, runner ports.CommandRunner, fs ports.FileSystem, system ports.System) *App {
	return &App{
		out:    out,
		logger: logger,
		runner: runner,
		fs:     fs,
		system: system,
	}
}

// BuildSteps assembles the provisioning sequence for a profile. Order
// matters: package sources before packages, packages before the tools
// and shell work that depends on them.
func (a *App) BuildSteps(cfg *config.Config) []step.Step {
	user := a.system.Username()
	arch := a.system.Arch()

	steps := []step.Step{
		apt.NewUpdateStep(a.runner),
		apt.NewInstallStep("base", cfg.Packages.Install, a.runner),
		apt.NewPurgeStep(cfg.Packages.Purge, a.runner),
		apt.NewRepoStep(cfg.DockerRepo, a.runner, a.fs, a.system),
		docker.NewEngineStep(a.runner),
	}
	for _, tool := range cfg.Tools {
		steps = append(steps, tools.NewInstallStep(tool, arch, a.fs))
	}
	steps = append(steps,
		shell.NewLoginShellStep(user, cfg.Shell.Path, a.runner),
		shell.NewFrameworkStep(cfg.Shell.FrameworkURL, cfg.Shell.FrameworkDir, a.runner, a.fs),
		shell.NewRCBlockStep(cfg.Shell.RCPath, shell.KubeconfigSection, shell.KubeconfigHelper, a.fs),
		ssh.NewKeypairStep(cfg.SSHKeyPath, a.fs),
	)
	return steps
}

// Up runs the full provisioning sequence and renders the report. When
// the run completes without aborting, it also prints the host's public
// key and the installed tool versions.
func (a *App) Up(ctx context.Context, cfg *config.Config) (*sequence.RunReport, error) {
	runner := sequence.NewRunner(a.system, a.logger).
		WithExpectedRelease(hostinfo.Expected{
			ID:        cfg.Release.ID,
			VersionID: cfg.Release.VersionID,
		})

	report, err := runner.Run(ctx, a.BuildSteps(cfg))
	if report != nil {
		a.PrintReport(report)
		if !report.Aborted() {
			a.PrintPublicKey(cfg)
			a.PrintVersions(ctx)
		}
	}
	return report, err
}
