package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crosscheck-dev/crosscheck/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "Show recorded run results",
		Long:          `List recent specification runs recorded by "run --history".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "history database path (defaults to the manifest's)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to show")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	path := opts.Database
	if path == "" {
		manifest, err := resolveManifest(opts.RootOptions, nil)
		if err != nil {
			return &ExitError{Code: ExitCommandError, Message: "failed to load manifest", Err: err}
		}
		path = manifest.History
	}
	if path == "" {
		return NewExitError(ExitCommandError, "no history database configured (use --db or the manifest)")
	}

	store, err := history.Open(path)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to open history", Err: err}
	}
	defer store.Close()

	runs, err := store.RecentRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to read history", Err: err}
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: runs})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return nil
	}
	for _, r := range runs {
		verdict := "PASS"
		if !r.OK {
			verdict = "FAIL"
		}
		fmt.Fprintf(w, "%s  %-4s  %s  %d/%d passed, %d skipped\n",
			r.StartedAt.Format(time.RFC3339), verdict, r.Package,
			r.Passed, r.Total-r.Skipped, r.Skipped)
		if r.Fatal != "" {
			fmt.Fprintf(w, "    aborted: %s\n", r.Fatal)
		}
	}
	return nil
}
