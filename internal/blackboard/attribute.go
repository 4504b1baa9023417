package blackboard

import (
	"database/sql"
	"fmt"
	"strconv"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/roach88/tskdbdiff/internal/tskdb"
)

// ValueType identifies which value slot of an attribute is populated.
type ValueType int64

const (
	ValueString   ValueType = 0
	ValueInt32    ValueType = 1
	ValueInt64    ValueType = 2
	ValueDouble   ValueType = 3
	ValueBytes    ValueType = 4
	ValueDateTime ValueType = 5
)

// AssociatedArtifact is the display name of the attribute type whose value
// is the id of another artifact.
const AssociatedArtifact = "Associated Artifact"

// Attribute is one row of blackboard_attributes joined to its type.
type Attribute struct {
	Source      string
	DisplayName string
	ValueType   ValueType
	Text        sql.NullString
	Int32       sql.NullInt64
	Int64       sql.NullInt64
	// Double holds value_double as stored. The column has NUMERIC affinity,
	// so integral values come back as int64 and render without ".0".
	Double any
}

// populatedSlots counts the non-NULL value slots (text, int32, int64,
// double). The bytes slot is not counted.
func (a Attribute) populatedSlots() int {
	n := 0
	for _, valid := range []bool{a.Text.Valid, a.Int32.Valid, a.Int64.Valid, a.Double != nil} {
		if valid {
			n++
		}
	}
	return n
}

// RenderValue renders the slot selected by the value type. Byte values are
// never printed; their content is not stable between runs. A NULL slot
// renders as "None". A value type outside the known range is an error.
func RenderValue(a Attribute) (string, error) {
	switch a.ValueType {
	case ValueString:
		if a.Text.Valid {
			return tskdb.Text(a.Text.String), nil
		}
	case ValueInt32:
		if a.Int32.Valid {
			return strconv.FormatInt(a.Int32.Int64, 10), nil
		}
	case ValueInt64, ValueDateTime:
		if a.Int64.Valid {
			return strconv.FormatInt(a.Int64.Int64, 10), nil
		}
	case ValueDouble:
		if a.Double != nil {
			return tskdb.FormatValue(a.Double), nil
		}
	case ValueBytes:
		return "bytes", nil
	default:
		return "", fmt.Errorf("unknown value type %d for attribute %q", a.ValueType, a.DisplayName)
	}
	return "None", nil
}

// lineBreakers are the characters that would break the one-record-per-line
// dump format.
var lineBreakers = runes.Predicate(func(r rune) bool {
	switch r {
	case '\n', '\x00', '\a', '\b', '\r', '\f':
		return true
	}
	return false
})

// SanitizeValue replaces each newline, NUL, bell, backspace, carriage return
// and form feed with a single space.
func SanitizeValue(s string) string {
	out, _, err := transform.String(runes.Map(func(r rune) rune {
		if lineBreakers.Contains(r) {
			return ' '
		}
		return r
	}), s)
	if err != nil {
		return s
	}
	return out
}
