// Package platform identifies the operating system being provisioned and
// resolves platform-specific installer artifacts.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
)

// Platform is the operating system tag the provisioning run targets.
// It is determined once at startup and never changes during a run.
type Platform int

const (
	// Unknown is the zero value; Detect never returns it without an error.
	Unknown Platform = iota

	// MacOS covers Darwin-based systems.
	MacOS

	// Linux covers Linux-based systems.
	Linux
)

// String returns a human-readable name for the platform tag.
func (p Platform) String() string {
	switch p {
	case MacOS:
		return "macOS"
	case Linux:
		return "Linux"
	default:
		return "unknown"
	}
}

// Detect inspects the OSTYPE environment variable (set by the user's shell,
// e.g. "darwin24.0" or "linux-gnu") and falls back to runtime.GOOS when it is
// unset. Anything that is not Darwin- or Linux-flavored is an error; nothing
// downstream can run on an unsupported system.
func Detect() (Platform, error) {
	return detect(os.Getenv("OSTYPE"), runtime.GOOS)
}

func detect(ostype, goos string) (Platform, error) {
	id := ostype
	if id == "" {
		id = goos
	}

	switch {
	case strings.HasPrefix(id, "darwin"):
		return MacOS, nil
	case strings.HasPrefix(id, "linux"):
		return Linux, nil
	}
	return Unknown, errors.Newf("unsupported platform %q: only macOS and Linux are supported", id)
}

// condaArtifacts maps platform/architecture pairs to the Miniconda installer
// filename published under repo.anaconda.com/miniconda.
var condaArtifacts = map[Platform]map[string]string{
	MacOS: {
		"arm64": "Miniconda3-latest-MacOSX-arm64.sh",
		"amd64": "Miniconda3-latest-MacOSX-x86_64.sh",
	},
	Linux: {
		"amd64": "Miniconda3-latest-Linux-x86_64.sh",
		"arm64": "Miniconda3-latest-Linux-aarch64.sh",
	},
}

const condaBaseURL = "https://repo.anaconda.com/miniconda/"

// CondaInstallerURL returns the download URL of the Miniconda batch installer
// for the given platform and Go architecture string (runtime.GOARCH).
func CondaInstallerURL(p Platform, arch string) (string, error) {
	artifact, ok := condaArtifacts[p][arch]
	if !ok {
		return "", errors.Newf("no Miniconda installer for %s/%s", p, arch)
	}
	return condaBaseURL + artifact, nil
}

// HomebrewBinDir returns the directory the Homebrew bootstrap installs its
// executable into on the given platform.
func HomebrewBinDir(p Platform) string {
	if p == MacOS {
		return "/opt/homebrew/bin"
	}
	return "/home/linuxbrew/.linuxbrew/bin"
}

// ShellProfile returns the per-user shell startup file the Homebrew shellenv
// line is appended to on Linux.
func ShellProfile(home string) string {
	return filepath.Join(home, ".bashrc")
}
