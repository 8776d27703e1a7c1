package main

import (
	"bootstrap-machine/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// The bootstrap-machine project provisions a developer workstation from scratch:
//   - Detects the operating system (macOS or Linux) and refuses anything else
//   - Probes network reachability up front so slow or failing downloads don't surprise the user
//   - Installs Homebrew if missing, registering its shellenv line in the shell profile on Linux
//   - Installs Miniconda into the user's home directory via the official batch installer
//   - Installs the working set of terminal tools (helix, tmux, zsh) in one brew call,
//     with an optional GitHub-release source for machines where brew cannot reach a package
//   - Writes fixed Helix editor configuration (settings plus a transparent theme variant)
//
// Every step re-probes the environment rather than consulting a cache, so repeat runs
// are idempotent: already-present tools are skipped with an informational message.
//
// Error handling strategy:
//   - The run is strictly sequential and halts on the first fatal step failure,
//     exiting non-zero with an actionable message; nothing is rolled back
//   - The network reachability probe is the only step whose failure is a warning
//     rather than a stop
func main() {
	cmd.Execute()
}
