package provision

import (
	"os"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/logger"
	"bootstrap-machine/internal/platform"
)

// geteuid is swapped out in tests.
var geteuid = os.Geteuid

// RequireNotRoot refuses to run with elevated privileges. Homebrew and
// Miniconda are per-user installs and must land under the invoking user's
// home, so this is checked before anything else happens.
func RequireNotRoot() error {
	if geteuid() == 0 {
		return errors.New("do not run as root: everything installs into your own home directory")
	}
	return nil
}

// toolchainStep verifies the Xcode Command Line Tools are present on macOS.
// The Homebrew bootstrap cannot proceed without them, and their installer is
// interactive, so a missing toolchain stops the run with re-run instructions
// rather than waiting on a dialog this program does not control.
type toolchainStep struct{}

func (s *toolchainStep) Name() string { return "xcode command line tools check" }

func (s *toolchainStep) Run(ctx *Context) Result {
	if ctx.Platform != platform.MacOS {
		return skipped("Toolchain check does not apply on " + ctx.Platform.String() + ".")
	}

	if _, err := ctx.Runner.Run("xcode-select", "-p"); err == nil {
		return ok("Xcode Command Line Tools are installed.")
	}

	// Kick off Apple's interactive installer; its outcome is outside this
	// run, so the output is only logged.
	if out, err := ctx.Runner.Run("xcode-select", "--install"); err != nil {
		logger.Debug("[DEBUG] xcode-select --install: %v\nOutput: %s\n", err, out)
	}

	return fatal(nil,
		"Xcode Command Line Tools are missing. An installer window has been opened; "+
			"finish the installation, then run bootstrap-machine again.")
}
