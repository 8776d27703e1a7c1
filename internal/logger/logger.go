// Package logger provides colorized leveled printing for the CLI.
package logger

import (
	"github.com/fatih/color"
)

// Package-level printing functions, one per log level. Each behaves like
// fmt.Printf with the text colored for its level.

// Info logs informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan when enabled, otherwise is a no-op.
// It is assigned during Init based on the debug flag.
var Debug func(format string, a ...any)

func init() {
	// Safe default so packages logging before Init don't hit a nil func.
	Debug = func(format string, a ...any) {}
}

// Init enables or disables debug logging for the whole program.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
