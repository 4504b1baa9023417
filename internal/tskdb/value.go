package tskdb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Text decodes database text leniently: byte sequences that are not valid
// UTF-8 are dropped rather than replaced.
func Text(s string) string {
	return strings.ToValidUTF8(s, "")
}

// FormatValue renders a scanned column value as text.
// NULL renders as the empty string.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return FormatDouble(val)
	case []byte:
		return Text(string(val))
	case string:
		return Text(val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return Text(fmt.Sprint(val))
	}
}

// FormatDouble renders a REAL with shortest round-trip digits. Values with a
// decimal exponent in [-4, 16) print in positional form, keeping ".0" on
// integral values (1500000000.0, not 1.5e+09); the rest print in exponent
// form (1e+16, 1e-05).
func FormatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.LastIndexByte(e, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return e
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
