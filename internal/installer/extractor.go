package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/cockroachdb/errors"
	"github.com/xi2/xz"

	"bootstrap-machine/internal/logger"
)

// ExtractArchive unpacks the archive at src into dest and returns the path
// of the extracted top-level entry. The format is chosen by file extension.
func ExtractArchive(src, dest string) (string, error) {
	switch {
	case strings.HasSuffix(src, ".zip"):
		return extractZip(src, dest)
	case strings.HasSuffix(src, ".7z"):
		return extract7z(src, dest)
	case strings.HasSuffix(src, ".tar"), strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"),
		strings.HasSuffix(src, ".tar.bz2"), strings.HasSuffix(src, ".tar.xz"):
		return extractTar(src, dest)
	default:
		return "", errors.Newf("unsupported archive format: %s", src)
	}
}

// extractTar handles tar and its compressed variants.
func extractTar(src, dest string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", errors.Wrapf(err, "open %s", src)
	}
	defer f.Close()

	var reader io.Reader = f
	switch {
	case strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return "", errors.Wrapf(err, "gzip reader for %s", src)
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(src, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(src, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return "", errors.Wrapf(err, "xz reader for %s", src)
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	var topLevel string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrapf(err, "read %s", src)
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return "", err
		}
		if topLevel == "" {
			topLevel = topLevelEntry(hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", errors.Wrapf(err, "mkdir %s", target)
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, hdr.FileInfo().Mode()); err != nil {
				return "", err
			}
		}
	}
	return filepath.Join(dest, topLevel), nil
}

func extractZip(src, dest string) (string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return "", errors.Wrapf(err, "open %s", src)
	}
	defer r.Close()

	var topLevel string
	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return "", err
		}
		if topLevel == "" {
			topLevel = topLevelEntry(f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", errors.Wrapf(err, "mkdir %s", target)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", errors.Wrapf(err, "open entry %s", f.Name)
		}
		err = writeEntry(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dest, topLevel), nil
}

func extract7z(src, dest string) (string, error) {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return "", errors.Wrapf(err, "open %s", src)
	}
	defer r.Close()

	var topLevel string
	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return "", err
		}
		if topLevel == "" {
			topLevel = topLevelEntry(f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", errors.Wrapf(err, "mkdir %s", target)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", errors.Wrapf(err, "open entry %s", f.Name)
		}
		err = writeEntry(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dest, topLevel), nil
}

// writeEntry writes one archive entry to target, creating parent directories.
func writeEntry(target string, r io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(target))
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return errors.Wrapf(err, "create %s", target)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return errors.Wrapf(err, "write %s", target)
	}
	return out.Close()
}

// safeJoin joins an archive entry name onto dest, rejecting entries that
// would escape it.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", errors.Newf("archive entry escapes destination: %s", name)
	}
	return target, nil
}

func topLevelEntry(name string) string {
	parts := strings.Split(filepath.ToSlash(name), "/")
	if len(parts) > 0 {
		return parts[0]
	}
	return name
}

// findExecutable walks root and returns the executable file whose name
// matches name. root may also be the executable itself when the archive held
// a single file.
func findExecutable(root, name string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", errors.Wrapf(err, "stat %s", root)
	}
	if !info.IsDir() {
		return root, nil
	}

	var found string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || found != "" {
			return err
		}
		if !strings.HasPrefix(filepath.Base(path), name) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		if fi.Mode().IsRegular() && fi.Mode().Perm()&0111 != 0 {
			logger.Debug("[DEBUG] Found executable: %s\n", path)
			found = path
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "scan %s", root)
	}
	if found == "" {
		return "", errors.Newf("no executable named %s found under %s", name, root)
	}
	return found, nil
}

// installBinary copies an executable into dstDir with mode 0755 and returns
// the installed path.
func installBinary(src, dstDir string) (string, error) {
	dst := filepath.Join(dstDir, filepath.Base(src))
	in, err := os.Open(src)
	if err != nil {
		return "", errors.Wrapf(err, "open %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", errors.Wrapf(err, "copy to %s", dst)
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrapf(err, "close %s", dst)
	}
	return dst, nil
}
