package provision

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// helixConfig is the fixed editor settings document. Written byte-for-byte;
// any existing file is overwritten, never merged.
const helixConfig = `theme = "onedark_transparent"

[editor]
line-number = "relative"
bufferline = "multiple"

[editor.cursor-shape]
insert = "bar"

[keys.normal]
H = "goto_previous_buffer"
L = "goto_next_buffer"

[keys.insert]
j = { k = "normal_mode" }
`

// helixTheme derives a transparent-background variant from the onedark theme.
const helixTheme = `inherits = "onedark"

"ui.background" = {}
`

const helixThemeName = "onedark_transparent"

// editorStep writes the Helix configuration and theme into the user's config
// directory, creating any missing directories.
type editorStep struct{}

func (s *editorStep) Name() string { return "helix editor configuration" }

func (s *editorStep) Run(ctx *Context) Result {
	helixDir := filepath.Join(userConfigDir(ctx), "helix")
	themesDir := filepath.Join(helixDir, "themes")
	if err := os.MkdirAll(themesDir, 0o755); err != nil {
		return fatal(errors.Wrapf(err, "mkdir %s", themesDir), "Failed to create Helix config directory.")
	}

	configPath := filepath.Join(helixDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(helixConfig), 0o644); err != nil {
		return fatal(errors.Wrapf(err, "write %s", configPath), "Failed to write Helix configuration.")
	}

	themePath := filepath.Join(themesDir, helixThemeName+".toml")
	if err := os.WriteFile(themePath, []byte(helixTheme), 0o644); err != nil {
		return fatal(errors.Wrapf(err, "write %s", themePath), "Failed to write Helix theme.")
	}

	return ok("Wrote Helix configuration to " + helixDir + ".")
}

// userConfigDir resolves the XDG config home within the run's environment
// context, defaulting to ~/.config.
func userConfigDir(ctx *Context) string {
	if dir := ctx.Env.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(ctx.Env.Home, ".config")
}
