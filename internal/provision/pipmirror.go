package provision

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/logger"
)

// pipConf is written verbatim; the mirror is significantly faster than the
// default index from networks where this tool is typically run.
const pipConf = `[global]
index-url = https://pypi.tuna.tsinghua.edu.cn/simple
trusted-host = pypi.tuna.tsinghua.edu.cn
`

// pipMirrorStep writes ~/.pip/pip.conf pointing pip at a package index
// mirror. It is wired into the sequence but disabled unless the pip_mirror
// config key or the --pip-mirror flag turns it on.
type pipMirrorStep struct{}

func (s *pipMirrorStep) Name() string { return "pip mirror configuration" }

func (s *pipMirrorStep) Run(ctx *Context) Result {
	if !ctx.Config.PipMirror {
		return skipped("Pip mirror configuration is disabled. Skipping.")
	}

	dir := filepath.Join(ctx.Env.Home, ".pip")

	// A ~/.pip owned by a previous sudo pip run is the common failure here.
	// One permission repair attempt, then an actionable stop.
	if info, err := os.Stat(dir); err == nil && info.IsDir() && !writable(dir) {
		logger.Warn("[WARN] %s is not writable, attempting to repair permissions...\n", dir)
		if err := grantUserWrite(dir); err != nil || !writable(dir) {
			return fatal(err, "Cannot write to "+dir+". Fix ownership with: sudo chown -R $(whoami) "+dir)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fatal(errors.Wrapf(err, "mkdir %s", dir), "Failed to create "+dir+".")
	}

	confPath := filepath.Join(dir, "pip.conf")
	if err := os.WriteFile(confPath, []byte(pipConf), 0o644); err != nil {
		return fatal(errors.Wrapf(err, "write %s", confPath), "Failed to write "+confPath+".")
	}

	return ok("Wrote pip mirror configuration to " + confPath + ".")
}

// grantUserWrite adds the owner write bit to every entry under root.
func grantUserWrite(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return os.Chmod(path, info.Mode().Perm()|0o200)
	})
}

// writable reports whether a file can actually be created in dir.
func writable(dir string) bool {
	probe := filepath.Join(dir, ".perm-probe")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	_ = f.Close()
	_ = os.Remove(probe)
	return true
}
