package sqlite

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

type runID int32

func TestToStore(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    any
		wantTag types.Tag
	}{
		{"string", "abc", "abc", types.TagText},
		{"int", 7, int64(7), types.TagInteger},
		{"int8", int8(-8), int64(-8), types.TagInteger},
		{"int16", int16(300), int64(300), types.TagInteger},
		{"int32", int32(-70000), int64(-70000), types.TagInteger},
		{"uint8", uint8(255), int64(255), types.TagInteger},
		{"uint32", uint32(1 << 31), int64(1 << 31), types.TagInteger},
		{"uint64 in range", uint64(math.MaxInt64), int64(math.MaxInt64), types.TagInteger},
		{"named int", runID(42), int64(42), types.TagInteger},
		{"float32", float32(0.5), float64(0.5), types.TagReal},
		{"float64", 2.5, 2.5, types.TagReal},
		{"bytes", []byte{0, 1}, []byte{0, 1}, types.TagBlob},
		{"nil", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tag, err := ToStore(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestToStore_Unsupported(t *testing.T) {
	for _, v := range []any{true, struct{}{}, []int{1}, map[string]any{}, uint64(math.MaxUint64)} {
		_, _, err := ToStore(v)
		assert.ErrorIs(t, err, types.ErrUnsupportedType, "%T", v)
	}
}

func TestTagForDeclared(t *testing.T) {
	tests := map[string]types.Tag{
		"INTEGER":      types.TagInteger,
		"bigint":       types.TagInteger,
		"TEXT":         types.TagText,
		"VARCHAR(20)":  types.TagText,
		"CLOB":         types.TagText,
		"BLOB":         types.TagBlob,
		"":             types.TagBlob,
		"REAL":         types.TagReal,
		"DOUBLE":       types.TagReal,
		"FLOAT":        types.TagReal,
		"NUMERIC":      types.TagReal,
		"DECIMAL(8,2)": types.TagReal,
	}
	for decl, want := range tests {
		assert.Equal(t, want, TagForDeclared(decl), decl)
	}
}

func TestColumnTag(t *testing.T) {
	tests := map[string]types.Tag{
		"INTEGER":      types.TagInteger,
		"VARCHAR(20)":  types.TagText,
		"":             types.TagBlob,
		"DOUBLE":       types.TagReal,
		"real":         types.TagReal,
		"FLOAT":        types.TagReal,
		"NUMERIC":      "",
		"DECIMAL(8,2)": "",
		"DATETIME":     "",
		"BOOLEAN":      "",
		"DATE":         "",
	}
	for decl, want := range tests {
		assert.Equal(t, want, ColumnTag(decl), decl)
	}
}

func TestCheckTag(t *testing.T) {
	v, err := CheckTag(int16(3), types.TagInteger)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = CheckTag(nil, types.TagReal)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = CheckTag("3", types.TagInteger)
	assert.ErrorIs(t, err, types.ErrTypeMismatch)

	_, err = CheckTag(3, types.TagReal)
	assert.ErrorIs(t, err, types.ErrTypeMismatch)

	v, err = CheckTag("anything", "")
	require.NoError(t, err)
	assert.Equal(t, "anything", v)
}

func TestFromStore(t *testing.T) {
	tests := []struct {
		name string
		in   any
		tag  types.Tag
		want any
	}{
		{"integer", int64(5), types.TagInteger, int64(5)},
		{"whole real as integer", float64(5), types.TagInteger, int64(5)},
		{"text digits as integer", "12", types.TagInteger, int64(12)},
		{"integer as real", int64(2), types.TagReal, float64(2)},
		{"bytes as text", []byte("hi"), types.TagText, "hi"},
		{"integer as text", int64(9), types.TagText, "9"},
		{"text in untyped column", "raw", types.TagBlob, "raw"},
		{"integer in untyped column", int64(1), types.TagBlob, int64(1)},
		{"text with no tag", "2026-01-02", "", "2026-01-02"},
		{"integer with no tag", int64(1), "", int64(1)},
		{"null", nil, types.TagReal, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromStore(tt.in, tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FromStore("abc", types.TagInteger)
	assert.ErrorIs(t, err, types.ErrTypeMismatch)
	_, err = FromStore(1.5, types.TagInteger)
	assert.ErrorIs(t, err, types.ErrTypeMismatch)
}

func TestTypeMap_RoundTripThroughEngine(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)
	require.NoError(t, s.Create(ctx, "vals", []types.ColumnDef{
		{Name: "i", Type: "INTEGER"},
		{Name: "r", Type: "REAL"},
		{Name: "s", Type: "TEXT"},
		{Name: "b", Type: "BLOB"},
	}, ""))

	rows := types.PositionalRows{
		{int64(math.MaxInt64), 0.1, "quote ' and \"double\"", []byte{0, 0xff, '\''}},
		{int64(math.MinInt64), -1e300, "", []byte{7}},
		{int8(-1), float32(0.25), "ünïcode", []byte("x")},
	}
	_, err := s.Insert(ctx, "vals", rows)
	require.NoError(t, err)

	rs, err := s.Query(ctx, types.QueryOptions{Table: "vals"})
	require.NoError(t, err)
	require.Equal(t, 3, rs.Len())

	assert.Equal(t, types.Record{int64(math.MaxInt64), 0.1, "quote ' and \"double\"", []byte{0, 0xff, '\''}}, rs.Records[0])
	assert.Equal(t, types.Record{int64(math.MinInt64), -1e300, "", []byte{7}}, rs.Records[1])
	assert.Equal(t, types.Record{int64(-1), 0.25, "ünïcode", []byte("x")}, rs.Records[2])
}

func TestHostType(t *testing.T) {
	tests := []struct {
		tag  types.Tag
		want any
	}{
		{types.TagText, ""},
		{types.TagInteger, int64(0)},
		{types.TagReal, float64(0)},
		{types.TagBlob, []byte(nil)},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.Equal(t, reflect.TypeOf(tt.want), HostType(tt.tag))
		})
	}
	assert.Nil(t, HostType("JSON"))
}
