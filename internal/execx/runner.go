package execx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"httpdctl/pkg/logging"
)

// Runner executes external commands on behalf of the control surfaces.
// It exists as an interface so reconciliation logic can be exercised in
// tests without spawning processes.
type Runner interface {
	// Run executes the named command and returns its exit code. A non-zero
	// exit code is not an error; the error is non-nil only when the command
	// could not be started or did not terminate normally.
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// ExecRunner is the default Runner backed by os/exec. Commands block until
// completion; no deadline is imposed beyond what the caller's context
// carries.
type ExecRunner struct{}

// NewExecRunner creates a Runner that spawns real processes.
func NewExecRunner() Runner {
	return ExecRunner{}
}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	logging.Debug("Exec", "Running %s %v", name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to run %s: %w", name, err)
}

// CheckRun executes the command and treats any non-zero exit code as an
// error. This mirrors callers that only care about success/failure.
func CheckRun(ctx context.Context, r Runner, name string, args ...string) error {
	rc, err := r.Run(ctx, name, args...)
	if err != nil {
		return err
	}
	if rc != 0 {
		return fmt.Errorf("%s exited with code %d", name, rc)
	}
	return nil
}
