package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shipshape/internal/app"
	"github.com/felixgeelhaar/shipshape/internal/config"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Provision this host",
	Long: `Up runs the provisioning sequence against the local host.

Steps already satisfied are skipped. A fatal step failure aborts the
run; non-fatal failures are reported and the run continues. The exit
status is non-zero when the run aborts or cannot start.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			printError(err)
			return err
		}

		a := app.New(cmd.OutOrStdout())
		report, err := a.Up(cmd.Context(), cfg)
		if err != nil {
			printError(err)
			return err
		}
		if report.Summary().FailedNonfatal > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "some optional steps failed; re-run after fixing them")
		}
		return nil
	},
}
