package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/shipshape/internal/config"
	"github.com/felixgeelhaar/shipshape/internal/domain/sequence"
	"github.com/felixgeelhaar/shipshape/internal/ports"
)

var (
	glyphOK       = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
	glyphSkipped  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("−")
	glyphNonfatal = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("!")
	glyphFatal    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Render("✗")

	styleHeading = lipgloss.NewStyle().Bold(true)
)

func glyph(status sequence.ResultStatus) string {
	switch status {
	case sequence.ResultOK:
		return glyphOK
	case sequence.ResultSkipped:
		return glyphSkipped
	case sequence.ResultFailedNonfatal:
		return glyphNonfatal
	case sequence.ResultFailedFatal:
		return glyphFatal
	default:
		return "?"
	}
}

// PrintReport renders the per-step outcomes and totals of a run.
func (a *App) PrintReport(report *sequence.RunReport) {
	fmt.Fprintf(a.out, "\n%s\n", styleHeading.Render("Run report"))
	for _, result := range report.Results() {
		fmt.Fprintf(a.out, "  %s %-28s %-16s %s\n",
			glyph(result.Status()),
			result.StepID(),
			result.Status(),
			result.Duration().Round(timePrecision),
		)
		if err := result.Error(); err != nil && result.Status().Failed() {
			fmt.Fprintf(a.out, "      %v\n", err)
		}
	}

	s := report.Summary()
	fmt.Fprintf(a.out, "\n%d steps: %d ok, %d skipped, %d failed (%d fatal)\n",
		s.Total, s.OK, s.Skipped, s.FailedNonfatal+s.FailedFatal, s.FailedFatal)
	if report.Aborted() {
		fmt.Fprintln(a.out, "run aborted: a fatal step failed")
	}
}

// PrintPublicKey emits the host's public key between copy-paste
// friendly banner lines, so it can be lifted straight into an
// authorized_keys or deploy-key form. Missing keys are reported, not
// fatal.
func (a *App) PrintPublicKey(cfg *config.Config) {
	pubPath := ports.ExpandPath(cfg.SSHKeyPath) + ".pub"
	data, err := a.fs.ReadFile(pubPath)
	if err != nil {
		fmt.Fprintf(a.out, "\npublic key unavailable: %v\n", err)
		return
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "----- BEGIN PUBLIC KEY -----")
	fmt.Fprint(a.out, string(data))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(a.out)
	}
	fmt.Fprintln(a.out, "----- END PUBLIC KEY -----")
}
