package dbdiff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/tskdbdiff/internal/blackboard"
	"github.com/roach88/tskdbdiff/internal/normalize"
	"github.com/roach88/tskdbdiff/internal/textdiff"
	"github.com/roach88/tskdbdiff/internal/tskdb"
)

// Dump file names, shared by candidate and gold dumps.
const (
	DumpFile               = "DBDump.txt"
	DumpDiffFile           = "DBDump-Diff.txt"
	BlackboardDumpFile     = "BlackboardDump.txt"
	BlackboardDumpDiffFile = "BlackboardDump-Diff.txt"
)

// DumpResult summarizes the dumps written for one database.
type DumpResult struct {
	Statements int
	Rewritten  int
	Artifacts  int
	Attributes int
	Warnings   []string
}

// DumpDatabase writes the sorted non-blackboard dump of dbPath to dumpPath
// and its sorted blackboard dump to bbDumpPath. An empty path skips that
// dump. On error no partial dump is left behind.
func DumpDatabase(ctx context.Context, dbPath, dumpPath, bbDumpPath string, logger *slog.Logger) (*DumpResult, error) {
	if logger == nil {
		logger = discardLogger()
	}

	db, err := tskdb.Open(dbPath)
	if err != nil {
		return nil, setupError(dbPath, "cannot open database", err)
	}
	defer db.Close()

	result := &DumpResult{}

	if dumpPath != "" {
		err := writeDump(dumpPath, func(w io.Writer) error {
			res, err := normalize.Dump(ctx, db, w)
			if err != nil {
				return err
			}
			result.Statements = res.Statements
			result.Rewritten = res.Rewritten
			result.Warnings = append(result.Warnings, res.Warnings...)
			return nil
		})
		if err != nil {
			return nil, classify(dbPath, dumpPath, "non-blackboard dump failed", err)
		}
		logger.Debug("wrote dump", "db", dbPath, "path", dumpPath,
			"statements", result.Statements, "rewritten", result.Rewritten)
	}

	if bbDumpPath != "" {
		err := writeDump(bbDumpPath, func(w io.Writer) error {
			res, err := blackboard.Dump(ctx, db, w)
			if err != nil {
				return err
			}
			result.Artifacts = res.Artifacts
			result.Attributes = res.Attributes
			result.Warnings = append(result.Warnings, res.Warnings...)
			return nil
		})
		if err != nil {
			if dumpPath != "" {
				os.Remove(dumpPath)
			}
			return nil, classify(dbPath, bbDumpPath, "blackboard dump failed", err)
		}
		logger.Debug("wrote blackboard dump", "db", dbPath, "path", bbDumpPath,
			"artifacts", result.Artifacts, "attributes", result.Attributes)
	}

	for _, w := range result.Warnings {
		logger.Warn(w, "db", dbPath)
	}

	return result, nil
}

// fileError marks a failure to create, write or sort a dump file, as
// opposed to a failure reading the database.
type fileError struct {
	err error
}

func (e *fileError) Error() string { return e.err.Error() }
func (e *fileError) Unwrap() error { return e.err }

// writeDump creates path, fills it with fn and sorts it. The file is
// removed if any step fails.
func writeDump(path string, fn func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &fileError{err}
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &fileError{err}
	}
	if err := textdiff.SortFile(path, path); err != nil {
		return &fileError{err}
	}
	return nil
}

// classify converts a dump failure into the matching *Error.
func classify(dbPath, filePath, message string, err error) *Error {
	var extErr *blackboard.ExtractionError
	if errors.As(err, &extErr) {
		return extractionError(dbPath, extErr.ArtifactID, extErr.Err)
	}
	var fErr *fileError
	if errors.As(err, &fErr) {
		return ioError(filePath, message, fErr.err)
	}
	return setupError(dbPath, message, err)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (r *DumpResult) String() string {
	return fmt.Sprintf("%d statements (%d rewritten), %d artifacts, %d attributes, %d warnings",
		r.Statements, r.Rewritten, r.Artifacts, r.Attributes, len(r.Warnings))
}
