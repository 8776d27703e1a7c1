package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"bootstrap-machine/internal/config"
	"bootstrap-machine/internal/logger"
	"bootstrap-machine/internal/provision"
)

// configPath holds the path to an optional bootstrap.yaml override file,
// passed via `--config` or `-c`. Empty means search the XDG config dirs and
// fall back to the built-in defaults.
var configPath string

// pipMirror enables the dormant pip index mirror step.
var pipMirror bool

// provisionCmd runs the full provisioning sequence in order: network check,
// toolchain check, Homebrew, Miniconda, packages, editor configuration.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision this machine (homebrew, miniconda, packages, editor config)",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := newRunContext()
		runSteps(ctx, provision.Full())
		provision.PrintCompletion(ctx.Platform)
	},
}

// provisionPackagesCmd installs only the configured package set.
var provisionPackagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Install only the configured packages",
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(newRunContext(), provision.PackagesOnly())
	},
}

// provisionRuntimeCmd installs only Miniconda.
var provisionRuntimeCmd = &cobra.Command{
	Use:   "runtime",
	Short: "Install only the Miniconda runtime",
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(newRunContext(), provision.RuntimeOnly())
	},
}

// provisionEditorCmd writes only the Helix editor configuration.
var provisionEditorCmd = &cobra.Command{
	Use:   "editor",
	Short: "Write only the Helix editor configuration",
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(newRunContext(), provision.EditorOnly())
	},
}

// newRunContext performs the shared preconditions (privilege guard, config
// load, platform detection) and assembles the run context. Any failure here
// is fatal before a single side effect has happened.
func newRunContext() *provision.Context {
	if err := provision.RequireNotRoot(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
	if pipMirror {
		cfg.PipMirror = true
	}

	ctx, err := provision.NewContext(cfg)
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
	logger.Info("[INFO] Detected platform: %s\n", ctx.Platform)
	return ctx
}

// runSteps executes the sequence and exits non-zero on the first fatal step.
func runSteps(ctx *provision.Context, steps []provision.Step) {
	if err := provision.Run(ctx, steps); err != nil {
		logger.Error("[ERROR] Provisioning aborted: %v\n", err)
		os.Exit(1)
	}
}

// init sets up CLI flags and registers the provision command tree.
func init() {
	provisionCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to bootstrap.yaml (default: built-in configuration)")
	provisionCmd.PersistentFlags().BoolVar(&pipMirror, "pip-mirror", false, "Also write the pip index mirror configuration")

	provisionCmd.AddCommand(provisionPackagesCmd)
	provisionCmd.AddCommand(provisionRuntimeCmd)
	provisionCmd.AddCommand(provisionEditorCmd)
	rootCmd.AddCommand(provisionCmd)
}
