// Package config supplies the provisioning defaults and the optional
// bootstrap.yaml override file.
package config

import (
	"os"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Package describes one tool the package-install step provisions.
// Source selects how it is installed:
//   - "brew" (or empty): part of the single `brew install` call
//   - "github": fetched from a GitHub release archive and installed into
//     ~/.local/bin, for machines where brew cannot reach the package
type Package struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Repo   string `yaml:"repo"` // GitHub repo, e.g. helix-editor/helix (source: github)
	Tag    string `yaml:"tag"`  // Release tag; empty means the latest release
}

// Config holds every tunable of a provisioning run. The zero value is not
// usable; start from Default.
type Config struct {
	// ReachabilityURL is probed with a short HEAD request before any
	// download-heavy step runs. Failure only produces a warning.
	ReachabilityURL string `yaml:"reachability_url"`

	// CondaInstallerURL overrides the platform-selected Miniconda installer
	// artifact. Empty means pick by platform and architecture.
	CondaInstallerURL string `yaml:"conda_installer_url"`

	// CondaDir is the Miniconda install directory, relative to the user's
	// home directory.
	CondaDir string `yaml:"conda_dir"`

	// Packages is the tool set the package-install step provisions.
	Packages []Package `yaml:"packages"`

	// PipMirror enables the dormant pip index mirror configuration step.
	PipMirror bool `yaml:"pip_mirror"`
}

// Default returns the built-in configuration used when no bootstrap.yaml is
// present. A bootstrap tool has to work on a machine with no files on it.
func Default() *Config {
	return &Config{
		ReachabilityURL: "https://www.baidu.com",
		CondaDir:        "miniconda3",
		Packages: []Package{
			{Name: "helix"},
			{Name: "tmux"},
			{Name: "zsh"},
		},
	}
}

// BrewPackages returns the names of packages installed through brew.
func (c *Config) BrewPackages() []string {
	var names []string
	for _, p := range c.Packages {
		if p.Source == "" || p.Source == "brew" {
			names = append(names, p.Name)
		}
	}
	return names
}

// ReleasePackages returns the packages installed from GitHub releases.
func (c *Config) ReleasePackages() []Package {
	var pkgs []Package
	for _, p := range c.Packages {
		if p.Source == "github" {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path searches the XDG config directories for
// bootstrap-machine/bootstrap.yaml and silently falls back to the defaults
// when nothing is found; an explicitly given path must exist and parse.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		found, err := xdg.SearchConfigFile("bootstrap-machine/bootstrap.yaml")
		if err != nil {
			return cfg, nil
		}
		path = found
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !explicit {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ReachabilityURL == "" {
		return errors.New("reachability_url must not be empty")
	}
	if c.CondaDir == "" {
		return errors.New("conda_dir must not be empty")
	}
	for _, p := range c.Packages {
		if p.Name == "" {
			return errors.New("every package needs a name")
		}
		switch p.Source {
		case "", "brew":
		case "github":
			if p.Repo == "" {
				return errors.Newf("package %s: source github requires a repo", p.Name)
			}
		default:
			return errors.Newf("package %s: unknown source %q", p.Name, p.Source)
		}
	}
	return nil
}
