package main

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shipshape/internal/app"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report installed component versions",
	Long: `Doctor probes the provisioned components and prints their versions.

It never changes the host and needs no privilege; components that are
missing simply show as "not found".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app.New(cmd.OutOrStdout()).PrintVersions(cmd.Context())
		return nil
	},
}
