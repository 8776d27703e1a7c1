package provision

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/logger"
	"bootstrap-machine/internal/platform"
)

const (
	brewInstallURL = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"

	// linuxbrewShellenv is the line appended to ~/.bashrc on Linux so new
	// shells can find brew. The append is not guarded against duplicates;
	// see homebrew_test.go.
	linuxbrewShellenv = `eval "$(/home/linuxbrew/.linuxbrew/bin/brew shellenv)"`
)

// homebrewStep installs Homebrew when the `brew` executable is not on the
// search path, registers it in the shell profile on Linux, and refreshes the
// package index. Nothing below this step can run without brew, so every
// failure here is fatal.
type homebrewStep struct{}

func (s *homebrewStep) Name() string { return "homebrew install" }

func (s *homebrewStep) Run(ctx *Context) Result {
	if path, found := ctx.Env.LookPath("brew"); found {
		return skipped("Homebrew already installed at " + path + ". Skipping.")
	}

	logger.Info("[INFO] Installing Homebrew...\n")
	bootstrap := fmt.Sprintf("curl -fsSL %s | /bin/bash", brewInstallURL)
	if out, err := ctx.Runner.Run("/bin/bash", "-c", bootstrap); err != nil {
		return fatal(errors.Wrapf(err, "homebrew bootstrap: %s", out), "Homebrew installation failed.")
	}

	// Make brew visible to the rest of this run, and to future shells.
	switch ctx.Platform {
	case platform.Linux:
		profile := platform.ShellProfile(ctx.Env.Home)
		if err := appendProfileLine(profile, linuxbrewShellenv); err != nil {
			return fatal(err, "Failed to register Homebrew in "+profile+".")
		}
		logger.Info("[INFO] Added Homebrew shellenv to %s\n", profile)
	case platform.MacOS:
		// The macOS bootstrap registers the shell profile itself.
	}
	ctx.Env.PrependPath(platform.HomebrewBinDir(ctx.Platform))

	if out, err := ctx.Runner.Run("brew", "update"); err != nil {
		return fatal(errors.Wrapf(err, "brew update: %s", out), "Failed to update Homebrew package index.")
	}

	return ok("Homebrew installed.")
}

// appendProfileLine appends line to the shell profile at path, creating the
// file if needed. It never rewrites existing content.
func appendProfileLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return errors.Wrapf(err, "append to %s", path)
	}
	return nil
}
