package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://www.baidu.com", cfg.ReachabilityURL)
	assert.Equal(t, "miniconda3", cfg.CondaDir)
	assert.False(t, cfg.PipMirror)
	assert.Equal(t, []string{"helix", "tmux", "zsh"}, cfg.BrewPackages())
	assert.Empty(t, cfg.ReleasePackages())
}

func TestLoadMissingOptionalFile(t *testing.T) {
	// Point the XDG search path at an empty directory so no real user config
	// leaks into the test.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	xdg.Reload()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bootstrap.yaml")
	raw := `
pip_mirror: true
conda_dir: conda
packages:
  - name: tmux
  - name: helix
    source: github
    repo: helix-editor/helix
    tag: "25.01"
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.PipMirror)
	assert.Equal(t, "conda", cfg.CondaDir)
	// Untouched keys keep their defaults.
	assert.Equal(t, "https://www.baidu.com", cfg.ReachabilityURL)

	assert.Equal(t, []string{"tmux"}, cfg.BrewPackages())
	release := cfg.ReleasePackages()
	require.Len(t, release, 1)
	assert.Equal(t, "helix", release[0].Name)
	assert.Equal(t, "helix-editor/helix", release[0].Repo)
	assert.Equal(t, "25.01", release[0].Tag)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "bad yaml", raw: ":\n  - ["},
		{name: "nameless package", raw: "packages:\n  - source: brew\n"},
		{name: "github without repo", raw: "packages:\n  - name: helix\n    source: github\n"},
		{name: "unknown source", raw: "packages:\n  - name: helix\n    source: apt\n"},
		{name: "empty conda dir", raw: "conda_dir: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bootstrap.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.raw), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
