package provision

import (
	"os"
	"path"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/installer"
	"bootstrap-machine/internal/logger"
	"bootstrap-machine/internal/platform"
)

// downloadArtifact fetches a URL to a local file. Swapped out in tests.
var downloadArtifact = installer.DownloadFile

// condaStep installs Miniconda under the user's home directory when the
// `conda` executable is not on the search path: download the platform
// installer, run it in batch mode, delete the artifact, run `conda init`.
type condaStep struct{}

func (s *condaStep) Name() string { return "miniconda install" }

func (s *condaStep) Run(ctx *Context) Result {
	if condaPath, found := ctx.Env.LookPath("conda"); found {
		return skipped("Miniconda already installed at " + condaPath + ". Skipping.")
	}

	url := ctx.Config.CondaInstallerURL
	if url == "" {
		selected, err := platform.CondaInstallerURL(ctx.Platform, ctx.Arch)
		if err != nil {
			return fatal(err, "No Miniconda installer is available for this system.")
		}
		url = selected
	}

	artifact := filepath.Join(os.TempDir(), path.Base(url))
	logger.Info("[INFO] Downloading Miniconda installer from %s\n", url)
	if err := downloadArtifact(url, artifact); err != nil {
		return fatal(err, "Failed to download the Miniconda installer.")
	}

	prefix := filepath.Join(ctx.Env.Home, ctx.Config.CondaDir)
	logger.Info("[INFO] Installing Miniconda into %s\n", prefix)
	if out, err := ctx.Runner.Run("bash", artifact, "-b", "-p", prefix); err != nil {
		return fatal(errors.Wrapf(err, "miniconda installer: %s", out), "Miniconda installation failed.")
	}

	if err := os.Remove(artifact); err != nil {
		logger.Warn("[WARN] Could not remove installer %s: %v\n", artifact, err)
	}

	condaBin := filepath.Join(prefix, "bin", "conda")
	if out, err := ctx.Runner.Run(condaBin, "init"); err != nil {
		return fatal(errors.Wrapf(err, "conda init: %s", out), "conda init failed.")
	}
	ctx.Env.PrependPath(filepath.Join(prefix, "bin"))

	return ok("Miniconda installed.")
}
