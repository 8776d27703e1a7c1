package installer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootstrap-machine/internal/config"
)

func releaseWithAssets(names ...string) *release {
	rel := &release{TagName: "v1.0.0"}
	for _, name := range names {
		rel.Assets = append(rel.Assets, struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		}{Name: name, BrowserDownloadURL: "https://example.com/" + name})
	}
	return rel
}

func TestMatchAsset(t *testing.T) {
	tests := []struct {
		name    string
		assets  []string
		goos    string
		goarch  string
		want    string
		wantErr bool
	}{
		{
			name:   "linux amd64 tarball",
			assets: []string{"hx-x86_64-linux.tar.gz", "hx-aarch64-macos.tar.gz"},
			goos:   "linux", goarch: "amd64",
			want: "hx-x86_64-linux.tar.gz",
		},
		{
			name:   "darwin arm64 zip",
			assets: []string{"tool-x86_64-linux.tar.gz", "tool-aarch64-apple-darwin.zip"},
			goos:   "darwin", goarch: "arm64",
			want: "tool-aarch64-apple-darwin.zip",
		},
		{
			name:   "checksum files are not archives",
			assets: []string{"hx-x86_64-linux.tar.gz.sha256", "hx-x86_64-linux.tar.xz"},
			goos:   "linux", goarch: "amd64",
			want: "hx-x86_64-linux.tar.xz",
		},
		{
			name:   "case insensitive",
			assets: []string{"Tool-X86_64-Linux.tar.gz"},
			goos:   "linux", goarch: "amd64",
			want: "Tool-X86_64-Linux.tar.gz",
		},
		{
			name:   "no match",
			assets: []string{"hx-windows-amd64.zip"},
			goos:   "linux", goarch: "amd64",
			wantErr: true,
		},
		{
			name:   "unknown target",
			assets: []string{"hx-x86_64-linux.tar.gz"},
			goos:   "plan9", goarch: "amd64",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, name, err := matchAsset(releaseWithAssets(tt.assets...), tt.goos, tt.goarch)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestInstallFromGitHub(t *testing.T) {
	patterns := assetPatterns[runtime.GOOS+"/"+runtime.GOARCH]
	if len(patterns) == 0 {
		t.Skipf("no asset patterns for %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	assetName := "hx-" + patterns[0] + ".tar.gz"

	archive := buildTarGz(t, map[string][]byte{
		"hx-25.01/":   nil,
		"hx-25.01/hx": []byte("#!/bin/sh\necho hx\n"),
	})
	archiveBytes, err := os.ReadFile(archive)
	require.NoError(t, err)

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/helix-editor/helix/releases/tags/25.01":
			rel := releaseWithAssets(assetName)
			rel.Assets[0].BrowserDownloadURL = srv.URL + "/download/" + assetName
			_ = json.NewEncoder(w).Encode(rel)
		case "/download/" + assetName:
			_, _ = w.Write(archiveBytes)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	origBase := githubAPIBase
	githubAPIBase = srv.URL
	defer func() { githubAPIBase = origBase }()

	home := t.TempDir()
	pkg := config.Package{Name: "hx", Source: "github", Repo: "helix-editor/helix", Tag: "25.01"}

	installed, err := InstallFromGitHub(pkg, home)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "bin", "hx"), installed)

	raw, err := os.ReadFile(installed)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hx\n", string(raw))

	info, err := os.Stat(installed)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o111)
}

func TestFetchReleaseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	origBase := githubAPIBase
	githubAPIBase = srv.URL
	defer func() { githubAPIBase = origBase }()

	_, err := fetchRelease("nobody/nothing", "v0.0.0")
	assert.ErrorContains(t, err, "HTTP status 404")
}

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "artifact")
	require.NoError(t, DownloadFile(srv.URL, dest))

	raw, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(raw))
}

func TestDownloadFileHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := DownloadFile(srv.URL, filepath.Join(t.TempDir(), "artifact"))
	assert.ErrorContains(t, err, "HTTP status 500")
}
