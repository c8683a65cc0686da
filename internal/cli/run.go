package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/crosscheck-dev/crosscheck/internal/discover"
	"github.com/crosscheck-dev/crosscheck/internal/engine"
	"github.com/crosscheck-dev/crosscheck/internal/history"
	"github.com/crosscheck-dev/crosscheck/internal/report"
	"github.com/crosscheck-dev/crosscheck/internal/target"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Watch   bool
	History string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions, opts *Options) *cobra.Command {
	runOpts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [pattern ...]",
		Short: "Run conformance specifications",
		Long: `Discover specification documents, execute them against the registered
implementations, and report per-feature results.

Document patterns come from the manifest unless given as arguments.

Exit codes:
  0 - all specifications passed
  1 - one or more specifications failed
  2 - command error (bad paths, bad manifest, etc.)

Examples:
  crosscheck run
  crosscheck run 'specs/**/*.yaml'
  crosscheck run --manifest crosscheck.cue --watch
  crosscheck run --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(runOpts, opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&runOpts.Watch, "watch", false, "re-run when documents change")
	cmd.Flags().StringVar(&runOpts.History, "history", "", "record results to a SQLite database")

	return cmd
}

// resolveManifest loads the manifest named by the global flag, or the
// defaults, and applies command-line overrides.
func resolveManifest(rootOpts *RootOptions, patterns []string) (*target.Manifest, error) {
	m := target.DefaultManifest()
	if rootOpts.Manifest != "" {
		loaded, err := target.LoadManifest(rootOpts.Manifest)
		if err != nil {
			return nil, err
		}
		m = loaded
	}
	if rootOpts.Target != "" {
		m.Target = rootOpts.Target
	}
	if len(patterns) > 0 {
		m.Documents = patterns
	}
	return m, nil
}

func runRun(opts *RunOptions, cliOpts *Options, args []string, cmd *cobra.Command) error {
	manifest, err := resolveManifest(opts.RootOptions, args)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to load manifest", Err: err}
	}

	historyPath := manifest.History
	if opts.History != "" {
		historyPath = opts.History
	}

	var store *history.Store
	if historyPath != "" {
		store, err = history.Open(historyPath)
		if err != nil {
			return &ExitError{Code: ExitCommandError, Message: "failed to open history", Err: err}
		}
		defer store.Close()
	}

	log := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	runner := engine.NewRunner(cliOpts.Implementations)
	runner.SetLogger(log)
	for name, h := range cliOpts.Hooks {
		runner.RegisterHook(name, h)
	}

	execute := func() (engine.RunReport, error) {
		sources, err := discover.Documents(manifest.Documents)
		if err != nil {
			return engine.RunReport{}, err
		}
		specs := discover.Load(sources, manifest.Target, log)
		run := runner.Run(specs)

		if store != nil {
			for _, sr := range run.Specs {
				if _, err := store.RecordRun(cmd.Context(), sr); err != nil {
					log.Warn("failed to record run", "package", sr.Package, "err", err)
				}
			}
		}
		return run, nil
	}

	emit := func(run engine.RunReport) error {
		if opts.Format == "json" {
			resp := CLIResponse{Status: "ok", Data: report.ToJSON(run)}
			if !run.OK {
				resp.Status = "error"
				resp.Error = &CLIError{Code: "E_RUN_FAILED", Message: "one or more specifications failed"}
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		}
		report.NewPrinter(cmd.OutOrStdout()).PrintRun(run)
		return nil
	}

	run, err := execute()
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "run failed", Err: err}
	}
	if err := emit(run); err != nil {
		return err
	}

	if !opts.Watch {
		if !run.OK {
			return NewExitError(ExitFailure, "one or more specifications failed")
		}
		return nil
	}

	// Watch mode: re-run on every document change until interrupted.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintln(cmd.ErrOrStderr(), "watching for document changes (interrupt to stop)")
	err = discover.Watch(ctx, manifest.Documents, log, func() {
		run, err := execute()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "run failed: %v\n", err)
			return
		}
		if err := emit(run); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "output failed: %v\n", err)
		}
	})
	if err != nil && ctx.Err() == nil {
		return &ExitError{Code: ExitCommandError, Message: "watch failed", Err: err}
	}
	return nil
}
