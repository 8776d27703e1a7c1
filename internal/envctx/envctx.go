// Package envctx carries the mutable process environment through a
// provisioning run as an explicit value instead of implicit global state.
//
// A shell script that installs Homebrew evaluates `brew shellenv` so the
// commands that follow can find the new executable. The Go equivalent is an
// Env threaded through every step: a step that installs something prepends
// its bin directory, and later steps resolve executables against the updated
// search path.
package envctx

import (
	"os"
	"path/filepath"
	"strings"
)

// Env is the environment context for one provisioning run: the user's home
// directory, the ordered executable search path, and the remaining process
// variables handed to spawned commands.
type Env struct {
	// Home is the user's home directory.
	Home string

	path []string
	vars map[string]string
}

// Current builds an Env from the real process environment.
func Current() *Env {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}

	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	return &Env{
		Home: home,
		path: filepath.SplitList(os.Getenv("PATH")),
		vars: vars,
	}
}

// New builds an Env with an explicit home and search path. Used by tests and
// by callers that need an environment decoupled from the process.
func New(home string, path []string) *Env {
	return &Env{
		Home: home,
		path: append([]string(nil), path...),
		vars: make(map[string]string),
	}
}

// Path returns the search path entries in resolution order.
func (e *Env) Path() []string {
	return append([]string(nil), e.path...)
}

// PrependPath puts dir at the front of the search path so it wins resolution
// for the rest of the run. A dir already present is moved, not duplicated.
func (e *Env) PrependPath(dir string) {
	out := make([]string, 0, len(e.path)+1)
	out = append(out, dir)
	for _, p := range e.path {
		if p != dir {
			out = append(out, p)
		}
	}
	e.path = out
}

// Getenv returns the value of a variable in this context, or "".
func (e *Env) Getenv(key string) string {
	switch key {
	case "HOME":
		return e.Home
	case "PATH":
		return strings.Join(e.path, string(os.PathListSeparator))
	}
	return e.vars[key]
}

// Setenv sets a variable in this context only; the real process environment
// is never touched.
func (e *Env) Setenv(key, value string) {
	e.vars[key] = value
}

// LookPath resolves an executable name against this context's search path.
// Unlike exec.LookPath it never consults the process PATH, so executables
// installed earlier in the run are visible as soon as their directory is
// prepended.
func (e *Env) LookPath(name string) (string, bool) {
	if strings.Contains(name, string(os.PathSeparator)) {
		if isExecutable(name) {
			return name, true
		}
		return "", false
	}

	for _, dir := range e.path {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Environ renders the context as KEY=VALUE pairs for exec.Cmd, with HOME and
// the current PATH taking precedence over any stale inherited values.
func (e *Env) Environ() []string {
	out := make([]string, 0, len(e.vars)+2)
	for k, v := range e.vars {
		if k == "HOME" || k == "PATH" {
			continue
		}
		out = append(out, k+"="+v)
	}
	out = append(out, "HOME="+e.Home)
	out = append(out, "PATH="+strings.Join(e.path, string(os.PathListSeparator)))
	return out
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	mode := info.Mode()
	return mode.IsRegular() && mode.Perm()&0111 != 0
}
