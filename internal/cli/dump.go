package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/tskdbdiff/internal/dbdiff"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	OutDir string
}

// DumpSummary is the JSON payload of the dump command.
type DumpSummary struct {
	Dump           string   `json:"dump"`
	BlackboardDump string   `json:"blackboard_dump"`
	Statements     int      `json:"statements"`
	Rewritten      int      `json:"rewritten"`
	Artifacts      int      `json:"artifacts"`
	Attributes     int      `json:"attributes"`
	Warnings       []string `json:"warnings,omitempty"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <db_path>",
		Short: "Write the normalized dumps of one database",
		Long: `Write DBDump.txt and BlackboardDump.txt for a single case database.

The dumps are normalized and sorted exactly as during a comparison, so they
can be stored as gold dumps and passed back with --gold-dump and
--gold-bb-dump.

Examples:
  tskdbdiff dump gold/autopsy.db --out-dir gold
  tskdbdiff dump gold/autopsy.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out-dir", ".", "directory to write the dumps to")

	return cmd
}

func runDump(opts *DumpOptions, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return reportFatal(formatter, &dbdiff.Error{
			Code: dbdiff.ErrCodeIO, Message: "cannot create output directory", Path: opts.OutDir, Err: err,
		})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary := DumpSummary{
		Dump:           filepath.Join(opts.OutDir, dbdiff.DumpFile),
		BlackboardDump: filepath.Join(opts.OutDir, dbdiff.BlackboardDumpFile),
	}

	res, err := dbdiff.DumpDatabase(ctx, dbPath, summary.Dump, summary.BlackboardDump,
		newLogger(opts.RootOptions, cmd.ErrOrStderr()))
	if err != nil {
		return reportFatal(formatter, err)
	}

	summary.Statements = res.Statements
	summary.Rewritten = res.Rewritten
	summary.Artifacts = res.Artifacts
	summary.Attributes = res.Attributes
	summary.Warnings = res.Warnings

	if opts.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "Wrote %s and %s\n", summary.Dump, summary.BlackboardDump)
	formatter.VerboseLog("%s", res)
	return nil
}
