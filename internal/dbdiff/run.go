package dbdiff

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/tskdbdiff/internal/textdiff"
)

// Options configures one comparison run.
type Options struct {
	// OutputDB is the candidate case database.
	OutputDB string

	// GoldDB is the accepted reference database.
	GoldDB string

	// OutputDir receives the candidate dumps, diffs and gold copies. Empty
	// means a transient directory removed at the end of the run.
	OutputDir string

	// GoldDump and GoldBlackboardDump are existing gold dumps. Each one
	// that is set replaces generating that dump from GoldDB. They are
	// sorted into private copies; the files themselves are never modified.
	GoldDump           string
	GoldBlackboardDump string

	// Differ renders diffs on mismatch. Nil means textdiff.DefaultDiffer().
	Differ textdiff.Differ

	// RunIDs generates the run id. Nil means UUIDv7Generator.
	RunIDs RunIDGenerator

	// Logger receives progress and warnings. Nil discards them.
	Logger *slog.Logger
}

// Files lists the artifacts a run left in its output directory. A path is
// empty when the file was not produced. All paths are empty when the output
// directory was transient.
type Files struct {
	Dump                   string `json:"dump,omitempty"`
	DumpDiff               string `json:"dump_diff,omitempty"`
	GoldDumpCopy           string `json:"gold_dump_copy,omitempty"`
	BlackboardDump         string `json:"blackboard_dump,omitempty"`
	BlackboardDumpDiff     string `json:"blackboard_dump_diff,omitempty"`
	GoldBlackboardDumpCopy string `json:"gold_blackboard_dump_copy,omitempty"`
}

// Result is the outcome of a completed comparison.
type Result struct {
	RunID            string
	DumpPassed       bool
	BlackboardPassed bool
	Warnings         []string
	Files            Files
}

// Passed reports whether both comparisons passed.
func (r *Result) Passed() bool {
	return r.DumpPassed && r.BlackboardPassed
}

// TempRoot returns the directory private run directories are created in:
// $TMP when set, else the system temp directory.
func TempRoot() string {
	if dir := os.Getenv("TMP"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// Run compares opts.OutputDB against opts.GoldDB.
//
// Content mismatches are reported through Result. A non-nil error is always
// an *Error and means the comparison did not complete.
func Run(ctx context.Context, opts Options) (*Result, error) {
	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = UUIDv7Generator{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	differ := opts.Differ
	if differ == nil {
		differ = textdiff.DefaultDiffer()
	}

	result := &Result{RunID: runIDs.Generate()}
	logger = logger.With("run_id", result.RunID)

	for _, path := range []string{opts.OutputDB, opts.GoldDB} {
		if _, err := os.Stat(path); err != nil {
			return nil, setupError(path, "database not found", err)
		}
	}

	workDir, err := os.MkdirTemp(TempRoot(), "tskdbdiff-")
	if err != nil {
		return nil, ioError(TempRoot(), "cannot create work directory", err)
	}
	defer os.RemoveAll(workDir)

	outputDir := opts.OutputDir
	transient := outputDir == ""
	if transient {
		outputDir, err = os.MkdirTemp(TempRoot(), "tskdbdiff-out-")
		if err != nil {
			return nil, ioError(TempRoot(), "cannot create output directory", err)
		}
		defer os.RemoveAll(outputDir)
	} else if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, ioError(outputDir, "cannot create output directory", err)
	}

	logger.Info("comparison started", "output_db", opts.OutputDB, "gold_db", opts.GoldDB, "output_dir", outputDir)

	goldDump, goldBBDump, warnings, err := prepareGold(ctx, opts, workDir, logger)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)

	dump := filepath.Join(outputDir, DumpFile)
	bbDump := filepath.Join(outputDir, BlackboardDumpFile)
	dumpDiff := filepath.Join(outputDir, DumpDiffFile)
	bbDumpDiff := filepath.Join(outputDir, BlackboardDumpDiffFile)

	for _, stale := range []string{dumpDiff, bbDumpDiff, textdiff.GoldCopyPath(dump), textdiff.GoldCopyPath(bbDump)} {
		if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, ioError(stale, "cannot remove previous result", err)
		}
	}

	candidate, err := DumpDatabase(ctx, opts.OutputDB, dump, bbDump, logger.With("side", "output"))
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, candidate.Warnings...)

	result.DumpPassed, err = textdiff.Compare(ctx, dump, goldDump, dumpDiff, differ)
	if err != nil {
		return nil, ioError(dumpDiff, "cannot write non-blackboard diff", err)
	}
	result.BlackboardPassed, err = textdiff.Compare(ctx, bbDump, goldBBDump, bbDumpDiff, differ)
	if err != nil {
		return nil, ioError(bbDumpDiff, "cannot write blackboard diff", err)
	}

	logger.Info("comparison finished",
		"dump_passed", result.DumpPassed,
		"blackboard_passed", result.BlackboardPassed,
		"warnings", len(result.Warnings))

	if !transient {
		result.Files = Files{Dump: dump, BlackboardDump: bbDump}
		if !result.DumpPassed && fileExists(dumpDiff) {
			result.Files.DumpDiff = dumpDiff
			result.Files.GoldDumpCopy = textdiff.GoldCopyPath(dump)
		}
		if !result.BlackboardPassed && fileExists(bbDumpDiff) {
			result.Files.BlackboardDumpDiff = bbDumpDiff
			result.Files.GoldBlackboardDumpCopy = textdiff.GoldCopyPath(bbDump)
		}
	}

	return result, nil
}

// prepareGold returns the paths of the two sorted gold dumps inside
// workDir, copying supplied dumps and generating the rest from GoldDB.
func prepareGold(ctx context.Context, opts Options, workDir string, logger *slog.Logger) (string, string, []string, error) {
	goldDir := filepath.Join(workDir, "gold")
	if err := os.Mkdir(goldDir, 0o755); err != nil {
		return "", "", nil, ioError(goldDir, "cannot create gold directory", err)
	}

	goldDump := filepath.Join(goldDir, DumpFile)
	goldBBDump := filepath.Join(goldDir, BlackboardDumpFile)

	var genDump, genBBDump string
	if opts.GoldDump == "" {
		genDump = goldDump
	} else if err := copySorted(opts.GoldDump, goldDump, logger); err != nil {
		return "", "", nil, err
	}
	if opts.GoldBlackboardDump == "" {
		genBBDump = goldBBDump
	} else if err := copySorted(opts.GoldBlackboardDump, goldBBDump, logger); err != nil {
		return "", "", nil, err
	}

	if genDump == "" && genBBDump == "" {
		return goldDump, goldBBDump, nil, nil
	}

	res, err := DumpDatabase(ctx, opts.GoldDB, genDump, genBBDump, logger.With("side", "gold"))
	if err != nil {
		return "", "", nil, err
	}
	return goldDump, goldBBDump, res.Warnings, nil
}

// copySorted writes a sorted copy of a supplied gold dump. A missing dump
// is only logged; Compare then reports that comparison as failed.
func copySorted(src, dst string, logger *slog.Logger) error {
	err := textdiff.SortFile(src, dst)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("gold dump not found", "path", src)
		return nil
	}
	if err != nil {
		return ioError(src, "cannot sort gold dump", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
