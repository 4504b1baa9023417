package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tskdbdiff/internal/dbdiff"
)

// Result messages, one per outcome. A failed run prints one line per
// failing dump kind.
const (
	MsgPassed           = "Database comparison passed."
	MsgDumpFailed       = "Non blackboard database comparison failed."
	MsgBlackboardFailed = "Blackboard database comparison failed."
)

// CompareOptions holds flags for the comparison.
type CompareOptions struct {
	*RootOptions
	OutputDir          string
	GoldDump           string
	GoldBlackboardDump string
}

// CompareResult is the JSON payload of a completed comparison.
type CompareResult struct {
	Passed           bool         `json:"passed"`
	DumpPassed       bool         `json:"dump_passed"`
	BlackboardPassed bool         `json:"blackboard_passed"`
	Messages         []string     `json:"messages"`
	Warnings         []string     `json:"warnings,omitempty"`
	Files            dbdiff.Files `json:"files"`
}

func runCompare(opts *CompareOptions, outputDB, goldDB string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := dbdiff.Run(ctx, dbdiff.Options{
		OutputDB:           outputDB,
		GoldDB:             goldDB,
		OutputDir:          opts.OutputDir,
		GoldDump:           opts.GoldDump,
		GoldBlackboardDump: opts.GoldBlackboardDump,
		Differ:             opts.Differ,
		RunIDs:             opts.RunIDs,
		Logger:             newLogger(opts.RootOptions, cmd.ErrOrStderr()),
	})
	if err != nil {
		return reportFatal(formatter, err)
	}

	out := CompareResult{
		Passed:           res.Passed(),
		DumpPassed:       res.DumpPassed,
		BlackboardPassed: res.BlackboardPassed,
		Messages:         resultMessages(res),
		Warnings:         res.Warnings,
		Files:            res.Files,
	}

	if opts.Format == "json" {
		return formatter.JSON(CLIResponse{Status: "ok", Data: out, RunID: res.RunID})
	}

	for _, msg := range out.Messages {
		fmt.Fprintln(formatter.Writer, msg)
	}
	for _, path := range []string{res.Files.DumpDiff, res.Files.BlackboardDumpDiff} {
		if path != "" {
			formatter.VerboseLog("diff written to %s", path)
		}
	}
	return nil
}

// resultMessages returns the lines printed for a completed comparison.
func resultMessages(res *dbdiff.Result) []string {
	if res.Passed() {
		return []string{MsgPassed}
	}
	var msgs []string
	if !res.DumpPassed {
		msgs = append(msgs, MsgDumpFailed)
	}
	if !res.BlackboardPassed {
		msgs = append(msgs, MsgBlackboardFailed)
	}
	return msgs
}

// reportFatal prints a fatal comparison error and returns the matching
// ExitError.
func reportFatal(formatter *OutputFormatter, err error) error {
	code, message, details := describeError(err)
	if outErr := formatter.Error(code, message, details); outErr != nil {
		return WrapExitError(ExitCommandError, "failed to write output", outErr)
	}
	return &ExitError{Code: ExitCommandError, Message: "comparison failed", Err: err, Reported: true}
}

// describeError splits err into the code, message and details shown to the
// user.
func describeError(err error) (string, string, interface{}) {
	var e *dbdiff.Error
	if !errors.As(err, &e) {
		return "ERROR", err.Error(), nil
	}

	details := map[string]any{}
	if e.Path != "" {
		details["path"] = e.Path
	}
	if e.ArtifactID != 0 {
		details["artifact_id"] = e.ArtifactID
	}
	if e.Err != nil {
		details["cause"] = e.Err.Error()
	}
	message := e.Message
	if e.Path != "" {
		message += ": " + e.Path
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	if len(details) == 0 {
		return string(e.Code), message, nil
	}
	return string(e.Code), message, details
}
