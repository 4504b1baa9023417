package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tskdbdiff/internal/dbdiff"
	"github.com/roach88/tskdbdiff/internal/textdiff"
)

// Usage is printed when the comparison is invoked without both databases.
const Usage = "usage: tskdbdiff [OUTPUT DB PATH] [GOLD DB PATH]"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// RunIDs overrides the run id generator (for testing).
	// If nil, dbdiff uses UUIDv7Generator.
	RunIDs dbdiff.RunIDGenerator

	// Differ overrides how diffs are rendered (for testing).
	// If nil, dbdiff uses textdiff.DefaultDiffer().
	Differ textdiff.Differ
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command, which compares an output case
// database against a gold one.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	compareOpts := &CompareOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "tskdbdiff <output_db_path> <gold_db_path>",
		Short: "Compare a case database against a gold database",
		Long: `Compare an output case database against a gold case database.

Both databases are normalized into two sorted text dumps: DBDump.txt with
every table except the blackboard, and BlackboardDump.txt with one line per
artifact. Object ids and run-specific values (device id, host name, times,
extraction directories) are replaced so that two runs over the same evidence
produce identical dumps. Each dump is compared with its gold counterpart;
on mismatch a -Diff.txt file and a Gold- copy are left in the output
directory.

Exit codes:
  0 - Comparison completed (passed or failed)
  1 - Usage error
  2 - Fatal error (missing database, unreadable schema, artifact extraction)

Examples:
  tskdbdiff output/autopsy.db gold/autopsy.db
  tskdbdiff out.db gold.db --output-dir results --gold-dump gold/DBDump.txt
  tskdbdiff out.db gold.db --format json`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Positional arguments past the two databases are ignored.
			if len(args) < 2 {
				fmt.Fprintln(cmd.OutOrStdout(), Usage)
				return &ExitError{Code: ExitUsage, Message: "expected output and gold database paths", Reported: true}
			}
			return runCompare(compareOpts, args[0], args[1], cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Comparison flags
	cmd.Flags().StringVar(&compareOpts.OutputDir, "output-dir", ".", "directory for dumps, diffs and gold copies")
	cmd.Flags().StringVar(&compareOpts.GoldDump, "gold-dump", "", "existing gold DBDump.txt (skips generating it)")
	cmd.Flags().StringVar(&compareOpts.GoldBlackboardDump, "gold-bb-dump", "", "existing gold BlackboardDump.txt (skips generating it)")

	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewSuiteCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
