package mock

import (
	"context"
	"strings"
	"sync"
)

// Call records one command invocation made through the Runner.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a single command line, which keeps test
// expectations readable.
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner is a scripted execx.Runner for tests. Exit codes and errors can be
// programmed per command line; unscripted commands succeed with exit code 0.
type Runner struct {
	mu sync.Mutex

	calls []Call

	// exitCodes maps a command line (as rendered by Call.String) to the
	// exit code Run should report.
	exitCodes map[string]int

	// errs maps a command line to a hard execution error.
	errs map[string]error
}

// NewRunner creates an empty scripted runner.
func NewRunner() *Runner {
	return &Runner{
		exitCodes: make(map[string]int),
		errs:      make(map[string]error),
	}
}

// ScriptExit programs the exit code for the given command line.
func (r *Runner) ScriptExit(commandLine string, code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exitCodes[commandLine] = code
}

// ScriptError programs a hard execution error for the given command line.
func (r *Runner) ScriptError(commandLine string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[commandLine] = err
}

// Run implements execx.Runner.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := Call{Name: name, Args: args}
	r.calls = append(r.calls, call)

	line := call.String()
	if err, ok := r.errs[line]; ok {
		return -1, err
	}
	return r.exitCodes[line], nil
}

// Calls returns all recorded invocations in order.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CommandLines returns the recorded invocations rendered as command lines.
func (r *Runner) CommandLines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// CountCommand returns how many recorded command lines have the given
// prefix.
func (r *Runner) CountCommand(prefix string) int {
	count := 0
	for _, line := range r.CommandLines() {
		if strings.HasPrefix(line, prefix) {
			count++
		}
	}
	return count
}
