package provision

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/installer"
	"bootstrap-machine/internal/logger"
)

// packagesStep installs the configured tool set: one `brew install` call for
// the brew-sourced packages (already-installed packages are no-ops inside
// brew), plus a GitHub release download for any package that declares
// source: github.
type packagesStep struct{}

func (s *packagesStep) Name() string { return "package install" }

func (s *packagesStep) Run(ctx *Context) Result {
	brewPkgs := ctx.Config.BrewPackages()
	if len(brewPkgs) > 0 {
		logger.Info("[INFO] Installing packages: %s\n", strings.Join(brewPkgs, ", "))
		args := append([]string{"install"}, brewPkgs...)
		if out, err := ctx.Runner.Run("brew", args...); err != nil {
			return fatal(errors.Wrapf(err, "brew install: %s", out), "Package installation failed.")
		}
	}

	releasePkgs := ctx.Config.ReleasePackages()
	for _, pkg := range releasePkgs {
		logger.Info("[INFO] Installing %s from GitHub release %s...\n", pkg.Name, pkg.Repo)
		installed, err := installer.InstallFromGitHub(pkg, ctx.Env.Home)
		if err != nil {
			return fatal(err, "Failed to install "+pkg.Name+" from GitHub.")
		}
		logger.Info("[INFO] Installed %s to %s\n", pkg.Name, installed)
	}
	if len(releasePkgs) > 0 {
		ctx.Env.PrependPath(filepath.Join(ctx.Env.Home, ".local", "bin"))
	}

	return ok("All packages installed.")
}
