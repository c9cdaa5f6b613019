package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shipshape/internal/domain/step"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shipshape",
	Short: "Idempotent single-host provisioning",
	Long: `Shipshape brings a fresh Linux host to a ready-to-work state:
packages, Docker, Kubernetes tooling, shell, and an SSH identity.

Every step checks before it acts, so re-running after a failure or on
an already-provisioned host is safe and fast.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "profile file (default: built-in profile)")

	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// formatError keeps the privilege failure actionable and leaves the
// rest as-is.
func formatError(err error) string {
	if errors.Is(err, step.ErrInsufficientPrivilege) {
		return fmt.Sprintf("%v\n\nSuggestion: re-run with sudo", err)
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
