package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		ostype  string
		goos    string
		want    Platform
		wantErr bool
	}{
		{name: "darwin ostype", ostype: "darwin24.0", goos: "darwin", want: MacOS},
		{name: "bare darwin", ostype: "darwin", goos: "darwin", want: MacOS},
		{name: "linux-gnu ostype", ostype: "linux-gnu", goos: "linux", want: Linux},
		{name: "linux-musl ostype", ostype: "linux-musl", goos: "linux", want: Linux},
		{name: "goos fallback darwin", ostype: "", goos: "darwin", want: MacOS},
		{name: "goos fallback linux", ostype: "", goos: "linux", want: Linux},
		{name: "freebsd rejected", ostype: "freebsd14.1", goos: "freebsd", wantErr: true},
		{name: "windows rejected", ostype: "", goos: "windows", wantErr: true},
		{name: "ostype wins over goos", ostype: "darwin23", goos: "linux", want: MacOS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detect(tt.ostype, tt.goos)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported platform")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCondaInstallerURL(t *testing.T) {
	tests := []struct {
		platform Platform
		arch     string
		want     string
		wantErr  bool
	}{
		{MacOS, "arm64", "https://repo.anaconda.com/miniconda/Miniconda3-latest-MacOSX-arm64.sh", false},
		{MacOS, "amd64", "https://repo.anaconda.com/miniconda/Miniconda3-latest-MacOSX-x86_64.sh", false},
		{Linux, "amd64", "https://repo.anaconda.com/miniconda/Miniconda3-latest-Linux-x86_64.sh", false},
		{Linux, "arm64", "https://repo.anaconda.com/miniconda/Miniconda3-latest-Linux-aarch64.sh", false},
		{Linux, "riscv64", "", true},
		{Unknown, "amd64", "", true},
	}

	for _, tt := range tests {
		got, err := CondaInstallerURL(tt.platform, tt.arch)
		if tt.wantErr {
			assert.Error(t, err, "%s/%s", tt.platform, tt.arch)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestHomebrewBinDir(t *testing.T) {
	assert.Equal(t, "/opt/homebrew/bin", HomebrewBinDir(MacOS))
	assert.Equal(t, "/home/linuxbrew/.linuxbrew/bin", HomebrewBinDir(Linux))
}

func TestShellProfile(t *testing.T) {
	assert.Equal(t, "/home/dev/.bashrc", ShellProfile("/home/dev"))
}
