package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"httpdctl/internal/apache"
	"httpdctl/internal/installer"
	"httpdctl/internal/systemd"
)

// Exit codes for CLI commands. These follow common conventions so scripts
// can distinguish failure classes.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeApacheFailed indicates an apache2 module or site operation failed.
	ExitCodeApacheFailed = 2
	// ExitCodeUnitFailed indicates a systemd unit operation failed.
	ExitCodeUnitFailed = 3
	// ExitCodeInstallFailed indicates package installation failed.
	ExitCodeInstallFailed = 4
)

// rootCmd represents the base command for the httpdctl application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "httpdctl",
	Short: "Lifecycle controller for a managed apache2 web server",
	Long: `httpdctl keeps a running apache2 instance converged on a declared
configuration: the set of enabled modules, the service restart that module
changes require, and virtual host activation once the service is ready.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles
// subcommands and flags. This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "httpdctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var enableErr *apache.ModuleEnableError
	if errors.As(err, &enableErr) {
		return ExitCodeApacheFailed
	}
	var disableErr *apache.ModuleDisableError
	if errors.As(err, &disableErr) {
		return ExitCodeApacheFailed
	}
	var siteEnableErr *apache.SiteEnableError
	if errors.As(err, &siteEnableErr) {
		return ExitCodeApacheFailed
	}
	var siteDisableErr *apache.SiteDisableError
	if errors.As(err, &siteDisableErr) {
		return ExitCodeApacheFailed
	}

	var unitErr *systemd.UnitCommandError
	if errors.As(err, &unitErr) {
		return ExitCodeUnitFailed
	}

	var installErr *installer.InstallError
	if errors.As(err, &installErr) {
		return ExitCodeInstallFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
