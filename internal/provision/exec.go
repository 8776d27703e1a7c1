package provision

import (
	"os/exec"
	"strings"

	"bootstrap-machine/internal/envctx"
	"bootstrap-machine/internal/logger"
)

// CommandRunner runs an external command to completion and returns its
// combined output. Steps depend on this interface so tests can substitute a
// fake and assert which commands a step issued.
type CommandRunner interface {
	Run(name string, args ...string) ([]byte, error)
}

// envRunner executes commands with the run's environment context. The
// executable is resolved against the context's search path, not the process
// PATH, so tools installed earlier in the run are found immediately.
type envRunner struct {
	env *envctx.Env
}

// NewRunner returns a CommandRunner bound to the given environment context.
func NewRunner(env *envctx.Env) CommandRunner {
	return &envRunner{env: env}
}

func (r *envRunner) Run(name string, args ...string) ([]byte, error) {
	resolved := name
	if path, found := r.env.LookPath(name); found {
		resolved = path
	}

	cmd := exec.Command(resolved, args...)
	cmd.Env = r.env.Environ()
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	return cmd.CombinedOutput()
}
