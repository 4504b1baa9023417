package suite

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/tskdbdiff/internal/dbdiff"
	"github.com/roach88/tskdbdiff/internal/textdiff"
)

// Options configures how every case of a suite is run.
type Options struct {
	Differ textdiff.Differ
	RunIDs dbdiff.RunIDGenerator
	Logger *slog.Logger
}

// CaseResult is the outcome of one case. Err is set when the comparison
// did not complete; the pass flags are then false.
type CaseResult struct {
	Name             string
	RunID            string
	DumpPassed       bool
	BlackboardPassed bool
	Warnings         []string
	Files            dbdiff.Files
	Err              error
}

// Passed reports whether both comparisons of the case passed.
func (r CaseResult) Passed() bool {
	return r.Err == nil && r.DumpPassed && r.BlackboardPassed
}

// Summary holds the results of a suite run in manifest order.
type Summary struct {
	Cases   []CaseResult
	Passed  int
	Failed  int
	Errored int
}

// Total returns the number of cases run.
func (s *Summary) Total() int {
	return len(s.Cases)
}

// Run compares each case of m in order. A fatal error in one case is
// recorded and the remaining cases still run. Run stops early only when
// ctx is cancelled.
func Run(ctx context.Context, m *Manifest, opts Options) *Summary {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	summary := &Summary{Cases: make([]CaseResult, 0, len(m.Cases))}

	for _, c := range m.Cases {
		if ctx.Err() != nil {
			break
		}

		caseLogger := logger.With("case", c.Name)
		res, err := dbdiff.Run(ctx, dbdiff.Options{
			OutputDB:           c.OutputDB,
			GoldDB:             c.GoldDB,
			OutputDir:          c.OutputDir,
			GoldDump:           c.GoldDump,
			GoldBlackboardDump: c.GoldBlackboardDump,
			Differ:             opts.Differ,
			RunIDs:             opts.RunIDs,
			Logger:             caseLogger,
		})

		result := CaseResult{Name: c.Name, Err: err}
		if err == nil {
			result.RunID = res.RunID
			result.DumpPassed = res.DumpPassed
			result.BlackboardPassed = res.BlackboardPassed
			result.Warnings = res.Warnings
			result.Files = res.Files
		}

		switch {
		case err != nil:
			summary.Errored++
			caseLogger.Error("case aborted", "error", err)
		case result.Passed():
			summary.Passed++
		default:
			summary.Failed++
		}

		summary.Cases = append(summary.Cases, result)
	}

	return summary
}
