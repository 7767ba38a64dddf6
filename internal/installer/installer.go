package installer

import (
	"context"
	"fmt"

	"httpdctl/internal/execx"
	"httpdctl/pkg/logging"
)

// defaultOptions keeps existing configuration files during upgrades.
var defaultOptions = []string{"--option=Dpkg::Options::=--force-confold"}

// InstallError indicates a package install invocation failed or received a
// malformed package list.
type InstallError struct {
	Packages []string
	Reason   string
	Err      error
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to install %v: %v", e.Packages, e.Err)
	}
	return fmt.Sprintf("failed to install %v: %s", e.Packages, e.Reason)
}

func (e *InstallError) Unwrap() error { return e.Err }

// Installer is the package install boundary, driving apt-get.
type Installer struct {
	runner execx.Runner
}

// New creates an Installer using the given runner.
func New(runner execx.Runner) *Installer {
	return &Installer{runner: runner}
}

// Install installs one or more packages. A nil options list applies the
// default dpkg conffile handling; an empty package list is an error.
func (i *Installer) Install(ctx context.Context, packages []string, options []string) error {
	if len(packages) == 0 {
		return &InstallError{Reason: "no packages given"}
	}
	if options == nil {
		options = defaultOptions
	}

	args := []string{"--assume-yes"}
	args = append(args, options...)
	args = append(args, "install")
	args = append(args, packages...)

	logging.Info("Installer", "Installing %v with options %v", packages, options)

	if err := execx.CheckRun(ctx, i.runner, "apt-get", args...); err != nil {
		return &InstallError{Packages: packages, Err: err}
	}
	return nil
}
