package blackboard

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderValue(t *testing.T) {
	tests := []struct {
		name string
		attr Attribute
		want string
	}{
		{"text", Attribute{ValueType: ValueString, Text: sql.NullString{String: "hello", Valid: true}}, "hello"},
		{"int32", Attribute{ValueType: ValueInt32, Int32: sql.NullInt64{Int64: -7, Valid: true}}, "-7"},
		{"int64", Attribute{ValueType: ValueInt64, Int64: sql.NullInt64{Int64: 1 << 40, Valid: true}}, "1099511627776"},
		{"datetime", Attribute{ValueType: ValueDateTime, Int64: sql.NullInt64{Int64: 1600000000, Valid: true}}, "1600000000"},
		{"double", Attribute{ValueType: ValueDouble, Double: 2.5}, "2.5"},
		{"integral double stored as integer", Attribute{ValueType: ValueDouble, Double: int64(3)}, "3"},
		{"integral double stored as real", Attribute{ValueType: ValueDouble, Double: 3.0}, "3.0"},
		{"large double", Attribute{ValueType: ValueDouble, Double: 1234567.5}, "1234567.5"},
		{"large integral double", Attribute{ValueType: ValueDouble, Double: 1.5e9}, "1500000000.0"},
		{"bytes", Attribute{ValueType: ValueBytes, Text: sql.NullString{String: "ignored", Valid: true}}, "bytes"},
		{"null slot", Attribute{ValueType: ValueString}, "None"},
		{"wrong slot", Attribute{ValueType: ValueInt32, Int64: sql.NullInt64{Int64: 5, Valid: true}}, "None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderValue(tt.attr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderValue_UnknownType(t *testing.T) {
	_, err := RenderValue(Attribute{DisplayName: "Name", ValueType: 99})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown value type 99")
}

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a\nb", "a b"},
		{"a\x00b", "a b"},
		{"\a\b\r\f", "    "},
		{"tab\tstays", "tab\tstays"},
		{"ünïcode\n", "ünïcode "},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeValue(tt.in), "input %q", tt.in)
	}
}

func TestPopulatedSlots(t *testing.T) {
	attr := Attribute{
		Text:  sql.NullString{String: "x", Valid: true},
		Int64: sql.NullInt64{Int64: 1, Valid: true},
	}
	assert.Equal(t, 2, attr.populatedSlots())
	attr.Double = int64(0)
	assert.Equal(t, 3, attr.populatedSlots())
	assert.Equal(t, 0, Attribute{}.populatedSlots())
}
