// Package dumpsql parses the INSERT statements of a logical database export
// into a table name and an ordered list of literal fields, so rewrite rules
// address fields by position instead of slicing statement text.
//
// Fields are kept as SQL literal source text (NULL, 42, 1.5, 'text',
// X'0A1B'). Splitting respects quoted literals, so a comma inside a string
// value never shifts the positions of the fields that follow it.
package dumpsql

import (
	"strconv"
	"strings"
)

const (
	insertPrefix = `INSERT INTO "`
	valuesOpen   = `" VALUES(`
	insertSuffix = ");"
)

// Insert is one parsed INSERT statement.
type Insert struct {
	Table  string
	Fields []string
}

// ParseInsert parses a statement of the form
//
//	INSERT INTO "<table>" VALUES(<field>,<field>,...);
//
// It returns false for any other statement, including INSERTs whose literal
// list is malformed (an unterminated quote).
func ParseInsert(stmt string) (*Insert, bool) {
	if !strings.HasPrefix(stmt, insertPrefix) || !strings.HasSuffix(stmt, insertSuffix) {
		return nil, false
	}
	rest := stmt[len(insertPrefix) : len(stmt)-len(insertSuffix)]

	table, rest, ok := parseIdent(rest)
	if !ok || !strings.HasPrefix(rest, valuesOpen) {
		return nil, false
	}
	rest = rest[len(valuesOpen):]

	fields, ok := splitFields(rest)
	if !ok {
		return nil, false
	}

	return &Insert{Table: table, Fields: fields}, true
}

// parseIdent reads a double-quoted identifier body up to its closing quote
// (the opening quote is already consumed) and returns the unescaped name and
// the text after the closing quote.
func parseIdent(s string) (string, string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			b.WriteByte('"')
			i++
			continue
		}
		return b.String(), s[i:], true
	}
	return "", "", false
}

// splitFields splits a VALUES list on the commas that sit outside quoted
// literals. Surrounding whitespace is trimmed from every field.
func splitFields(s string) ([]string, bool) {
	var fields []string
	inQuote := false
	start := 0

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'' && inQuote:
			if i+1 < len(s) && s[i+1] == '\'' {
				i++
				continue
			}
			inQuote = false
		case c == '\'':
			inQuote = true
		case c == ',' && !inQuote:
			fields = append(fields, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if inQuote {
		return nil, false
	}

	fields = append(fields, strings.TrimSpace(s[start:]))
	return fields, true
}

// String re-serializes the statement.
func (ins *Insert) String() string {
	var b strings.Builder
	b.WriteString(insertPrefix)
	b.WriteString(strings.ReplaceAll(ins.Table, `"`, `""`))
	b.WriteString(valuesOpen)
	b.WriteString(strings.Join(ins.Fields, ","))
	b.WriteString(insertSuffix)
	return b.String()
}

// Field returns field i, or false if the statement has fewer fields.
func (ins *Insert) Field(i int) (string, bool) {
	if i < 0 || i >= len(ins.Fields) {
		return "", false
	}
	return ins.Fields[i], true
}

// Clone returns a copy whose Fields can be modified independently.
func (ins *Insert) Clone() *Insert {
	fields := make([]string, len(ins.Fields))
	copy(fields, ins.Fields)
	return &Insert{Table: ins.Table, Fields: fields}
}

// Quote renders s as a SQL text literal.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Unquote returns the value of a SQL text literal.
func Unquote(lit string) (string, bool) {
	if len(lit) < 2 || lit[0] != '\'' || lit[len(lit)-1] != '\'' {
		return "", false
	}
	return strings.ReplaceAll(lit[1:len(lit)-1], "''", "'"), true
}

// Int parses an integer literal.
func Int(lit string) (int64, bool) {
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
