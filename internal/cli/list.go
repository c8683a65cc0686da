package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crosscheck-dev/crosscheck/internal/discover"
)

// ListEntry describes one discovered specification.
type ListEntry struct {
	Package  string `json:"package"`
	Features int    `json:"features"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [pattern ...]",
		Short: "List discovered specifications",
		Long: `Discover specification documents and show the packages they declare,
without executing anything.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runList(rootOpts *RootOptions, args []string, cmd *cobra.Command) error {
	manifest, err := resolveManifest(rootOpts, args)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to load manifest", Err: err}
	}

	log := newLogger(cmd.ErrOrStderr(), rootOpts.Verbose)

	sources, err := discover.Documents(manifest.Documents)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "discovery failed", Err: err}
	}
	specs := discover.Load(sources, manifest.Target, log)

	entries := make([]ListEntry, 0, len(specs))
	for _, s := range specs {
		entries = append(entries, ListEntry{Package: s.Package, Features: len(s.Features)})
	}

	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: entries})
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No specifications found.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d features\n", e.Package, e.Features)
	}
	return nil
}
