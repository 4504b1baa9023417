package normalize

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/roach88/tskdbdiff/internal/idmap"
	"github.com/roach88/tskdbdiff/internal/tskdb"
)

// Result summarizes one non-blackboard dump.
type Result struct {
	Statements int
	Rewritten  int
	Warnings   []string
}

// Dump builds the id tables for db, exports every table except the
// blackboard tables and writes one normalized statement per line to w.
// The output is unsorted.
func Dump(ctx context.Context, db *tskdb.DB, w io.Writer) (*Result, error) {
	tables, err := idmap.Build(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("build id tables: %w", err)
	}

	bw := bufio.NewWriter(w)
	result := &Result{}

	err = db.Export(ctx, tskdb.BlackboardTables, func(stmt string) error {
		line, warnings := Line(stmt, tables)
		result.Statements++
		if line != stmt {
			result.Rewritten++
		}
		result.Warnings = append(result.Warnings, warnings...)

		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	})
	if err != nil {
		return nil, fmt.Errorf("export database: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("write dump: %w", err)
	}

	return result, nil
}
