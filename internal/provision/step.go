// Package provision implements the ordered workstation provisioning
// sequence: platform preconditions, Homebrew, Miniconda, the package set,
// and the Helix editor configuration.
package provision

import (
	"runtime"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/config"
	"bootstrap-machine/internal/envctx"
	"bootstrap-machine/internal/logger"
	"bootstrap-machine/internal/platform"
)

// Status classifies the outcome of one provisioning step.
type Status int

const (
	// StatusOK means the step did its work.
	StatusOK Status = iota

	// StatusSkipped means the step had nothing to do (already installed,
	// wrong platform, or disabled).
	StatusSkipped

	// StatusWarning means the step failed but the run continues. Only the
	// network reachability probe uses this.
	StatusWarning

	// StatusFatal stops the run at this step.
	StatusFatal
)

// Result is the explicit outcome of one step: what happened and, for fatal
// results, the underlying error.
type Result struct {
	Status  Status
	Message string
	Err     error
}

func ok(msg string) Result      { return Result{Status: StatusOK, Message: msg} }
func skipped(msg string) Result { return Result{Status: StatusSkipped, Message: msg} }
func warning(msg string) Result { return Result{Status: StatusWarning, Message: msg} }

func fatal(err error, msg string) Result {
	return Result{Status: StatusFatal, Message: msg, Err: err}
}

// Step is one unit of the provisioning sequence.
type Step interface {
	// Name identifies the step in log output.
	Name() string

	// Run executes the step against the shared run context.
	Run(ctx *Context) Result
}

// Context is the state shared by all steps of one run: the platform tag
// computed once at start, the mutable environment context, the command
// runner, and the configuration.
type Context struct {
	Platform platform.Platform
	Arch     string
	Env      *envctx.Env
	Runner   CommandRunner
	Config   *config.Config
}

// NewContext detects the platform and assembles a run context from the real
// process environment.
func NewContext(cfg *config.Config) (*Context, error) {
	plat, err := platform.Detect()
	if err != nil {
		return nil, err
	}

	env := envctx.Current()
	return &Context{
		Platform: plat,
		Arch:     runtime.GOARCH,
		Env:      env,
		Runner:   NewRunner(env),
		Config:   cfg,
	}, nil
}

// Run executes steps strictly in order. The first fatal result stops the
// sequence and is returned as an error; warnings are logged and the run
// continues. Nothing already done is rolled back.
func Run(ctx *Context, steps []Step) error {
	for _, step := range steps {
		logger.Debug("[DEBUG] Running step: %s\n", step.Name())
		res := step.Run(ctx)

		switch res.Status {
		case StatusOK:
			if res.Message != "" {
				logger.Info("[INFO] %s\n", res.Message)
			}
		case StatusSkipped:
			logger.Info("[INFO] %s\n", res.Message)
		case StatusWarning:
			logger.Warn("[WARN] %s\n", res.Message)
		case StatusFatal:
			logger.Error("[ERROR] %s\n", res.Message)
			if res.Err != nil {
				return errors.Wrapf(res.Err, "%s failed", step.Name())
			}
			return errors.Newf("%s failed: %s", step.Name(), res.Message)
		}
	}
	return nil
}

// Full returns the complete provisioning sequence in execution order.
func Full() []Step {
	return []Step{
		&networkStep{},
		&toolchainStep{},
		&homebrewStep{},
		&condaStep{},
		&pipMirrorStep{},
		&packagesStep{},
		&editorStep{},
	}
}

// PackagesOnly returns the sequence for `provision packages`.
func PackagesOnly() []Step {
	return []Step{&packagesStep{}}
}

// RuntimeOnly returns the sequence for `provision runtime`.
func RuntimeOnly() []Step {
	return []Step{&condaStep{}}
}

// EditorOnly returns the sequence for `provision editor`.
func EditorOnly() []Step {
	return []Step{&editorStep{}}
}

// PrintCompletion prints the terminal message with platform-specific hints.
func PrintCompletion(p platform.Platform) {
	logger.Info("[INFO] Provisioning complete.\n")
	switch p {
	case platform.MacOS:
		logger.Info("[INFO] Open a new terminal session so the updated PATH takes effect.\n")
	case platform.Linux:
		logger.Info("[INFO] Run 'source ~/.bashrc' or open a new shell to pick up Homebrew.\n")
	}
}
