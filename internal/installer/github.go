package installer

import (
	"encoding/json"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/config"
	"bootstrap-machine/internal/logger"
)

// githubAPIBase is overridable so tests can point at a local server.
var githubAPIBase = "https://api.github.com"

// release mirrors the fields of a GitHub release JSON response this package
// cares about.
type release struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// assetPatterns lists, per GOOS/GOARCH, the substrings release asset names
// use for that target, in preference order.
var assetPatterns = map[string][]string{
	"darwin/arm64": {"aarch64-macos", "aarch64-apple-darwin", "darwin_arm64", "darwin-arm64", "macos-arm64"},
	"darwin/amd64": {"x86_64-macos", "x86_64-apple-darwin", "darwin_amd64", "darwin-amd64", "macos-x86_64"},
	"linux/amd64":  {"x86_64-linux", "x86_64-unknown-linux", "linux_amd64", "linux-amd64", "linux-x86_64"},
	"linux/arm64":  {"aarch64-linux", "aarch64-unknown-linux", "linux_arm64", "linux-arm64", "linux-aarch64"},
}

// archiveSuffixes are the asset formats the extractor understands.
var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".zip", ".7z"}

// InstallFromGitHub resolves a package's GitHub release, downloads the asset
// matching the local OS and architecture, extracts it, and installs the
// package executable into <home>/.local/bin. It returns the installed path.
func InstallFromGitHub(pkg config.Package, home string) (string, error) {
	rel, err := fetchRelease(pkg.Repo, pkg.Tag)
	if err != nil {
		return "", err
	}
	logger.Debug("[DEBUG] Release %s has %d assets\n", rel.TagName, len(rel.Assets))

	assetURL, assetName, err := matchAsset(rel, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "", err
	}

	archive := filepath.Join(os.TempDir(), path.Base(assetURL))
	logger.Info("[INFO] Downloading asset %s\n", assetName)
	if err := DownloadFile(assetURL, archive); err != nil {
		return "", err
	}
	defer os.Remove(archive)

	extractDir, err := os.MkdirTemp("", pkg.Name+"-extract-")
	if err != nil {
		return "", errors.Wrap(err, "create extraction directory")
	}
	defer os.RemoveAll(extractDir)

	extracted, err := ExtractArchive(archive, extractDir)
	if err != nil {
		return "", err
	}

	binary, err := findExecutable(extracted, pkg.Name)
	if err != nil {
		return "", err
	}

	binDir := filepath.Join(home, ".local", "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create %s", binDir)
	}
	return installBinary(binary, binDir)
}

// fetchRelease retrieves release metadata for repo, either a specific tag or
// the latest release when tag is empty.
func fetchRelease(repo, tag string) (*release, error) {
	url := githubAPIBase + "/repos/" + repo + "/releases/latest"
	if tag != "" {
		url = githubAPIBase + "/repos/" + repo + "/releases/tags/" + tag
	}
	logger.Debug("[DEBUG] Fetching GitHub release from %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch release for %s", repo)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("release fetch for %s failed: HTTP status %d", repo, resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, errors.Wrapf(err, "decode release JSON for %s", repo)
	}
	return &rel, nil
}

// matchAsset picks the release asset for the given OS and architecture,
// restricted to archive formats the extractor can open.
func matchAsset(rel *release, goos, goarch string) (url, name string, err error) {
	patterns := assetPatterns[goos+"/"+goarch]
	if len(patterns) == 0 {
		return "", "", errors.Newf("no asset patterns for %s/%s", goos, goarch)
	}

	for _, pattern := range patterns {
		for _, asset := range rel.Assets {
			lower := strings.ToLower(asset.Name)
			if strings.Contains(lower, pattern) && hasArchiveSuffix(lower) {
				logger.Debug("[DEBUG] Matched asset %s via pattern %s\n", asset.Name, pattern)
				return asset.BrowserDownloadURL, asset.Name, nil
			}
		}
	}
	return "", "", errors.Newf("no matching asset for %s/%s in release %s", goos, goarch, rel.TagName)
}

func hasArchiveSuffix(name string) bool {
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
