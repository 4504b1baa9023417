// Package normalize rewrites the non-blackboard export of a case database
// into a form that is stable across ingest runs.
//
// Each exported INSERT is parsed into its table and fields, rewritten by the
// rule registered for its table, and re-serialized. Statements for other
// tables, and everything that is not an INSERT, pass through unchanged.
//
// Substituted values are written as SQL text literals: an object id
// becomes '/img/doc.txt', not a bare path.
package normalize

import (
	"fmt"
	"strings"

	"github.com/roach88/tskdbdiff/internal/dumpsql"
	"github.com/roach88/tskdbdiff/internal/idmap"
)

// Placeholders written over run-specific values.
const (
	ReportName   = "AutopsyTestCase"
	DeviceID     = "{device id}"
	HostName     = "{host_name}"
	ModuleMarker = "EmbeddedFileExtractor"
)

// rule rewrites one parsed statement. It returns false to emit the original
// statement unmodified.
type rule func(ins *dumpsql.Insert, tables *idmap.Tables) (*dumpsql.Insert, []string, bool)

var rules = map[string]rule{
	"tsk_files":        dropObjectID,
	"tsk_files_path":   filesPath,
	"tsk_file_layout":  fileLayout,
	"tsk_objects":      objects,
	"reports":          reports,
	"data_source_info": dataSourceInfo,
	"ingest_jobs":      ingestJobs,
}

// Line normalizes one exported statement. The returned warnings describe
// rows that were left partly non-deterministic.
func Line(stmt string, tables *idmap.Tables) (string, []string) {
	ins, ok := dumpsql.ParseInsert(stmt)
	if !ok {
		return stmt, nil
	}

	r, ok := rules[ins.Table]
	if !ok {
		return stmt, nil
	}

	out, warnings, ok := r(ins.Clone(), tables)
	if !ok {
		return stmt, warnings
	}
	return out.String(), warnings
}

// dropObjectID removes field 0 from tsk_files rows.
func dropObjectID(ins *dumpsql.Insert, _ *idmap.Tables) (*dumpsql.Insert, []string, bool) {
	if len(ins.Fields) == 0 {
		return nil, nil, false
	}
	ins.Fields = ins.Fields[1:]
	return ins, nil, true
}

// replacePath swaps field i, an object id, for its quoted object path.
func replacePath(ins *dumpsql.Insert, i int, tables *idmap.Tables) bool {
	field, ok := ins.Field(i)
	if !ok {
		return false
	}
	id, ok := dumpsql.Int(field)
	if !ok {
		return false
	}
	path, ok := tables.Path(id)
	if !ok {
		return false
	}
	ins.Fields[i] = dumpsql.Quote(path)
	return true
}

// filesPath replaces the object id with its path and strips the run-scoped
// suffix from the embedded-file extraction directory in the local path.
func filesPath(ins *dumpsql.Insert, tables *idmap.Tables) (*dumpsql.Insert, []string, bool) {
	if !replacePath(ins, 0, tables) {
		return nil, nil, false
	}
	if field, ok := ins.Field(1); ok {
		if path, ok := dumpsql.Unquote(field); ok {
			ins.Fields[1] = dumpsql.Quote(StripModuleSuffix(path))
		}
	}
	return ins, nil, true
}

// fileLayout replaces the object id with its path.
func fileLayout(ins *dumpsql.Insert, tables *idmap.Tables) (*dumpsql.Insert, []string, bool) {
	if !replacePath(ins, 0, tables) {
		return nil, nil, false
	}
	return ins, nil, true
}

// objects replaces both the object id and the parent id. Unless both
// resolve, the row is left as exported.
func objects(ins *dumpsql.Insert, tables *idmap.Tables) (*dumpsql.Insert, []string, bool) {
	if len(ins.Fields) < 2 {
		return nil, nil, false
	}
	id, ok := dumpsql.Int(ins.Fields[0])
	if !ok {
		return nil, nil, false
	}
	parentID, ok := dumpsql.Int(ins.Fields[1])
	if !ok {
		return nil, nil, false
	}

	path, ok := tables.Resolve(id)
	if !ok {
		return nil, nil, false
	}
	parentPath, ok := tables.Resolve(parentID)
	if !ok {
		return nil, nil, false
	}

	ins.Fields[0] = dumpsql.Quote(path)
	ins.Fields[1] = dumpsql.Quote(parentPath)
	return ins, nil, true
}

// reports overwrites the report path and creation time, both derived from
// the time the report was generated.
func reports(ins *dumpsql.Insert, _ *idmap.Tables) (*dumpsql.Insert, []string, bool) {
	if len(ins.Fields) < 3 {
		return nil, nil, false
	}
	ins.Fields[1] = dumpsql.Quote(ReportName)
	ins.Fields[2] = "0"
	return ins, nil, true
}

// dataSourceInfo overwrites the machine-specific device id.
func dataSourceInfo(ins *dumpsql.Insert, _ *idmap.Tables) (*dumpsql.Insert, []string, bool) {
	if len(ins.Fields) < 2 {
		return nil, nil, false
	}
	ins.Fields[1] = dumpsql.Quote(DeviceID)
	return ins, nil, true
}

// ingestJobs overwrites the host name and zeroes the start and end times.
//
// The times are zeroed only when start <= end. Gold dumps were produced
// under that rule, so a job whose clock ran backwards keeps its times and
// is reported as a warning.
func ingestJobs(ins *dumpsql.Insert, _ *idmap.Tables) (*dumpsql.Insert, []string, bool) {
	if len(ins.Fields) < 5 {
		return nil, nil, false
	}
	ins.Fields[2] = dumpsql.Quote(HostName)

	start, okStart := dumpsql.Int(ins.Fields[3])
	end, okEnd := dumpsql.Int(ins.Fields[4])
	switch {
	case !okStart || !okEnd:
		return ins, []string{fmt.Sprintf("ingest job %s: non-integer start/end time left unmodified", ins.Fields[0])}, true
	case start > end:
		return ins, []string{fmt.Sprintf("ingest job %s: start time %d after end time %d, times left unmodified", ins.Fields[0], start, end)}, true
	}

	ins.Fields[3] = "0"
	ins.Fields[4] = "0"
	return ins, nil, true
}

// StripModuleSuffix removes the trailing "_<n>" from the directory that
// follows the embedded-file extractor's output directory, e.g.
//
//	/cases/ModuleOutput/EmbeddedFileExtractor/notes.txt_456/x.txt
//	→ /cases/ModuleOutput/EmbeddedFileExtractor/notes.txt/x.txt
//
// Both '/' and '\' separators are recognized. Paths without the marker, or
// whose directory does not end in an underscore and digits, are returned
// unchanged.
func StripModuleSuffix(path string) string {
	idx := strings.Index(path, ModuleMarker)
	if idx == -1 {
		return path
	}
	start := idx + len(ModuleMarker)
	if start >= len(path) || !isSeparator(path[start]) {
		return path
	}
	start++

	end := strings.IndexAny(path[start:], `/\`)
	if end == -1 {
		end = len(path)
	} else {
		end += start
	}

	dir := path[start:end]
	cut := strings.LastIndex(dir, "_")
	if cut == -1 || !isDigits(dir[cut+1:]) {
		return path
	}

	return path[:start] + dir[:cut] + path[end:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isSeparator(c byte) bool {
	return c == '/' || c == '\\'
}
