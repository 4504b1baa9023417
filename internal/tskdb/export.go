package tskdb

import (
	"context"
	"fmt"
	"strings"
)

// BlackboardTables are the artifact/attribute tables. Their ids are assigned
// in ingest order and are dumped by package blackboard instead.
var BlackboardTables = []string{"blackboard_artifacts", "blackboard_attributes"}

// schemaEntry is one row of sqlite_master.
type schemaEntry struct {
	Name    string
	TblName string
	SQL     string
}

// Export streams the logical dump of the database to fn, one statement per
// call, skipping the tables named in exclude along with their indexes and
// triggers. Returning an error from fn stops the export.
//
// Tables are visited by name, each CREATE followed by
// its rows, then indexes, triggers and views.
func (d *DB) Export(ctx context.Context, exclude []string, fn func(stmt string) error) error {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	if err := fn("BEGIN TRANSACTION;"); err != nil {
		return err
	}

	tables, err := d.schemaEntries(ctx, `"type" == 'table'`)
	if err != nil {
		return err
	}

	for _, table := range tables {
		if skip[table.Name] {
			continue
		}

		switch {
		case table.Name == "sqlite_sequence":
			err = fn(`DELETE FROM "sqlite_sequence";`)
		case table.Name == "sqlite_stat1":
			err = fn(`ANALYZE "sqlite_master";`)
		case strings.HasPrefix(table.Name, "sqlite_"):
			continue
		default:
			err = fn(Text(table.SQL) + ";")
		}
		if err != nil {
			return err
		}

		if err := d.exportRows(ctx, table.Name, fn); err != nil {
			return err
		}
	}

	others, err := d.schemaEntries(ctx, `"type" IN ('index', 'trigger', 'view')`)
	if err != nil {
		return err
	}
	for _, entry := range others {
		if skip[entry.Name] || skip[entry.TblName] {
			continue
		}
		if err := fn(Text(entry.SQL) + ";"); err != nil {
			return err
		}
	}

	return fn("COMMIT;")
}

// schemaEntries lists sqlite_master rows matching filter, ordered by name.
// The result set is fully read before returning so the single connection is
// free for the per-table queries that follow.
func (d *DB) schemaEntries(ctx context.Context, filter string) ([]schemaEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT "name", "tbl_name", "sql"
		FROM "sqlite_master"
		WHERE "sql" NOT NULL AND `+filter+`
		ORDER BY "name"
	`)
	if err != nil {
		return nil, fmt.Errorf("query schema: %w", err)
	}
	defer rows.Close()

	var entries []schemaEntry
	for rows.Next() {
		var e schemaEntry
		if err := rows.Scan(&e.Name, &e.TblName, &e.SQL); err != nil {
			return nil, fmt.Errorf("scan schema: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema: %w", err)
	}

	return entries, nil
}

// exportRows emits one INSERT statement per row of table.
func (d *DB) exportRows(ctx context.Context, table string, fn func(stmt string) error) error {
	columns, err := d.columns(ctx, table)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}

	rows, err := d.db.QueryContext(ctx, insertQuery(table, columns))
	if err != nil {
		return fmt.Errorf("query rows of %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return fmt.Errorf("scan row of %s: %w", table, err)
		}
		if err := fn(Text(stmt) + ";"); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows of %s: %w", table, err)
	}

	return nil
}

// columns returns the column names of table in declaration order.
func (d *DB) columns(ctx context.Context, table string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}

	var names []string
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan table info %s: %w", table, err)
		}
		for i, col := range cols {
			if col == "name" {
				names = append(names, FormatValue(values[i]))
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info %s: %w", table, err)
	}

	return names, nil
}

// insertQuery builds the SELECT that renders every row of table as an
// INSERT statement (without the trailing semicolon), letting SQLite's
// quote() format each literal.
//
// Example: insertQuery("t", ["a", "b"]) →
//
//	SELECT 'INSERT INTO "t" VALUES(' || quote("a") || ',' || quote("b") || ')' FROM "t"
func insertQuery(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = fmt.Sprintf("quote(%s)", QuoteIdent(col))
	}

	prefix := strings.ReplaceAll("INSERT INTO "+QuoteIdent(table)+" VALUES(", "'", "''")
	return fmt.Sprintf("SELECT '%s' || %s || ')' FROM %s",
		prefix,
		strings.Join(quoted, " || ',' || "),
		QuoteIdent(table))
}

// QuoteIdent quotes a SQL identifier with double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
