package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crosscheck-dev/crosscheck/internal/discover"
	"github.com/crosscheck-dev/crosscheck/internal/spec"
)

// ValidationIssue is one problem found in a document.
type ValidationIssue struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"` // "excluded" | "malformed"
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Specs  int               `json:"specs"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [pattern ...]",
		Short: "Check document grammar without executing",
		Long: `Parse every discovered document and report grammar problems:
documents excluded for lacking a PACKAGE header, and malformed feature
entries that would abort their specification at run time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(rootOpts *RootOptions, args []string, cmd *cobra.Command) error {
	manifest, err := resolveManifest(rootOpts, args)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to load manifest", Err: err}
	}

	sources, err := discover.Documents(manifest.Documents)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "discovery failed", Err: err}
	}

	result := ValidationResult{Valid: true}
	for _, src := range sources {
		s, err := spec.ParseDocument(src.Text, manifest.Target)
		if err != nil {
			if errors.Is(err, spec.ErrNotASpecification) {
				// Excluded documents are not errors at run time, but
				// validate surfaces them so typos in headers are visible.
				result.Issues = append(result.Issues, ValidationIssue{
					Path:    src.Path,
					Kind:    "excluded",
					Message: err.Error(),
				})
			}
			continue
		}
		result.Specs++
		if s.Malformed != nil {
			result.Valid = false
			result.Issues = append(result.Issues, ValidationIssue{
				Path:    src.Path,
				Kind:    "malformed",
				Message: s.Malformed.Error(),
			})
		}
	}

	if rootOpts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: "E_MALFORMED", Message: "one or more documents are malformed"}
		}
		if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, issue := range result.Issues {
			fmt.Fprintf(w, "%s: %s: %s\n", issue.Path, issue.Kind, issue.Message)
		}
		fmt.Fprintf(w, "%d specification(s), %d issue(s)\n", result.Specs, len(result.Issues))
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "one or more documents are malformed")
	}
	return nil
}
