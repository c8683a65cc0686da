// Package cli wires the conformance runner into a command-line tool.
//
// The run command needs live implementations, which are compiled into
// the embedding binary: a target project builds its own main that calls
// NewRootCommand with its implementation registry. The bundled
// cmd/crosscheck binary registers none, which still leaves list,
// validate, and history fully usable.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/crosscheck-dev/crosscheck/internal/engine"
)

// Options is what an embedding binary supplies to the CLI.
type Options struct {
	// Implementations maps package identifiers (as named by PACKAGE
	// headers) to the live implementation roots under test.
	Implementations map[string]any

	// Hooks are per-target extension callables merged into every
	// specification's initial scope.
	Hooks map[string]engine.Hook
}

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "text" | "json"
	Manifest string // manifest file path, empty for defaults
	Target   string // target identifier override
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the crosscheck root command.
func NewRootCommand(opts *Options) *cobra.Command {
	if opts == nil {
		opts = &Options{}
	}
	rootOpts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "crosscheck",
		Short: "crosscheck - cross-implementation conformance runner",
		Long:  "Runs declarative conformance specifications against a live implementation.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(rootOpts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", rootOpts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&rootOpts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&rootOpts.Manifest, "manifest", "", "path to a CUE target manifest")
	cmd.PersistentFlags().StringVar(&rootOpts.Target, "target", "", "target identifier override")

	cmd.AddCommand(NewRunCommand(rootOpts, opts))
	cmd.AddCommand(NewListCommand(rootOpts))
	cmd.AddCommand(NewValidateCommand(rootOpts))
	cmd.AddCommand(NewHistoryCommand(rootOpts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the command logger: stderr text when verbose,
// discard otherwise.
func newLogger(errW io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(errW, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
