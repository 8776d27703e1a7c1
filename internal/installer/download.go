// Package installer fetches release artifacts over HTTP and installs the
// executables they contain into the user's local bin directory.
package installer

import (
	"io"
	"net/http"
	"os"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/logger"
)

// DownloadFile downloads the content at url and writes it to destPath.
func DownloadFile(url, destPath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return errors.Wrapf(err, "GET %s", url)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("GET %s: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return errors.Wrapf(err, "create %s", destPath)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close %s: %v\n", destPath, cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return errors.Wrapf(err, "write %s", destPath)
	}

	logger.Debug("[DEBUG] Downloaded %s to %s\n", url, destPath)
	return nil
}
