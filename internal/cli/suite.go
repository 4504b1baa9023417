package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tskdbdiff/internal/suite"
)

// CaseOutput is the JSON form of one suite case.
type CaseOutput struct {
	Name             string    `json:"name"`
	RunID            string    `json:"run_id,omitempty"`
	Passed           bool      `json:"passed"`
	DumpPassed       bool      `json:"dump_passed"`
	BlackboardPassed bool      `json:"blackboard_passed"`
	Messages         []string  `json:"messages,omitempty"`
	Warnings         []string  `json:"warnings,omitempty"`
	Error            *CLIError `json:"error,omitempty"`
}

// SuiteResult holds the overall suite result.
type SuiteResult struct {
	Cases   []CaseOutput `json:"cases"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Errored int          `json:"errored"`
	Total   int          `json:"total"`
}

// NewSuiteCommand creates the suite command.
func NewSuiteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite <manifest.yaml>",
		Short: "Run every comparison listed in a manifest",
		Long: `Run the comparisons listed in a YAML manifest, one after the other.

Each case names an output database and a gold database, and optionally an
output directory and existing gold dumps. Relative paths are resolved
against the manifest's directory. A fatal error in one case does not stop
the others.

Exit codes:
  0 - Every case completed (passed or failed)
  1 - Usage error
  2 - Invalid manifest, or at least one case hit a fatal error

Examples:
  tskdbdiff suite regression.yaml
  tskdbdiff suite regression.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runSuite(opts *RootOptions, manifestPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	manifest, err := suite.LoadManifest(manifestPath)
	if err != nil {
		if outErr := formatter.Error("MANIFEST", err.Error(), map[string]string{"path": manifestPath}); outErr != nil {
			return WrapExitError(ExitCommandError, "failed to write output", outErr)
		}
		return &ExitError{Code: ExitCommandError, Message: "invalid manifest", Err: err, Reported: true}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary := suite.Run(ctx, manifest, suite.Options{
		Differ: opts.Differ,
		RunIDs: opts.RunIDs,
		Logger: newLogger(opts, cmd.ErrOrStderr()),
	})

	result := SuiteResult{
		Cases:   make([]CaseOutput, 0, len(summary.Cases)),
		Passed:  summary.Passed,
		Failed:  summary.Failed,
		Errored: summary.Errored,
		Total:   summary.Total(),
	}
	for _, c := range summary.Cases {
		result.Cases = append(result.Cases, caseOutput(c))
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputSuiteText(formatter, result)
	}

	if result.Errored > 0 {
		return &ExitError{
			Code:     ExitCommandError,
			Message:  fmt.Sprintf("%d case(s) hit a fatal error", result.Errored),
			Reported: true,
		}
	}
	return nil
}

func caseOutput(c suite.CaseResult) CaseOutput {
	out := CaseOutput{
		Name:             c.Name,
		RunID:            c.RunID,
		Passed:           c.Passed(),
		DumpPassed:       c.DumpPassed,
		BlackboardPassed: c.BlackboardPassed,
		Warnings:         c.Warnings,
	}

	if c.Err != nil {
		code, message, details := describeError(c.Err)
		out.Error = &CLIError{Code: code, Message: message, Details: details}
		return out
	}

	if !out.DumpPassed {
		out.Messages = append(out.Messages, MsgDumpFailed)
	}
	if !out.BlackboardPassed {
		out.Messages = append(out.Messages, MsgBlackboardFailed)
	}
	if out.Passed {
		out.Messages = []string{MsgPassed}
	}
	return out
}

func outputSuiteText(formatter *OutputFormatter, result SuiteResult) {
	w := formatter.Writer

	for _, c := range result.Cases {
		switch {
		case c.Error != nil:
			fmt.Fprintf(w, "✗ %s\n", c.Name)
			fmt.Fprintf(w, "  Error [%s]: %s\n", c.Error.Code, c.Error.Message)
		case c.Passed:
			fmt.Fprintf(w, "✓ %s\n", c.Name)
		default:
			fmt.Fprintf(w, "✗ %s\n", c.Name)
			fmt.Fprintf(w, "  %s\n", strings.Join(c.Messages, " "))
		}
		for _, warning := range c.Warnings {
			formatter.VerboseLog("  warning: %s", warning)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Suite Summary: %d passed, %d failed, %d errored, %d total\n",
		result.Passed, result.Failed, result.Errored, result.Total)
}
