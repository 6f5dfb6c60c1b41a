// Package cli parses command-line arguments into an app.Config and defines
// the ExitError type main uses to pick exit codes.
package cli
