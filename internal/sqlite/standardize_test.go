package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

var obsDeclared = []string{"id", "name", "flux"}

func TestStandardize_ShapesAgree(t *testing.T) {
	wantRows := [][]any{{1, "a", 2.5}, {2, "b", 3.5}}

	inputs := map[string]any{
		"columnar": types.Columns{
			Names:  []string{"id", "name", "flux"},
			Values: [][]any{{1, 2}, {"a", "b"}, {2.5, 3.5}},
		},
		"keyed records": types.KeyedRecords{
			{"flux": 2.5, "name": "a", "id": 1},
			{"id": 2, "flux": 3.5, "name": "b"},
		},
		"plain maps": []map[string]any{
			{"id": 1, "name": "a", "flux": 2.5},
			{"id": 2, "name": "b", "flux": 3.5},
		},
		"positional rows": types.PositionalRows{{1, "a", 2.5}, {2, "b", 3.5}},
		"plain rows":      [][]any{{1, "a", 2.5}, {2, "b", 3.5}},
		"nested any":      []any{[]any{1, "a", 2.5}, []any{2, "b", 3.5}},
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			rows, cols, err := Standardize(in, obsDeclared)
			require.NoError(t, err)
			assert.Equal(t, wantRows, rows)
			assert.Equal(t, obsDeclared, cols)
		})
	}
}

func TestStandardize_SingleRecord(t *testing.T) {
	want := [][]any{{1, "a", 2.5}}

	for name, in := range map[string]any{
		"keyed":      types.KeyedRecord{"id": 1, "name": "a", "flux": 2.5},
		"map":        map[string]any{"name": "a", "flux": 2.5, "id": 1},
		"positional": types.PositionalRow{1, "a", 2.5},
		"slice":      []any{1, "a", 2.5},
	} {
		t.Run(name, func(t *testing.T) {
			rows, cols, err := Standardize(in, obsDeclared)
			require.NoError(t, err)
			assert.Equal(t, want, rows)
			assert.Equal(t, obsDeclared, cols)
		})
	}
}

func TestStandardize_KeyedOrdering(t *testing.T) {
	rows, cols, err := Standardize(map[string]any{"FLUX": 1.0, "zeta": 0, "Id": 3}, obsDeclared)
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "FLUX", "zeta"}, cols)
	assert.Equal(t, [][]any{{3, 1.0, 0}}, rows)
}

func TestStandardize_ColumnarNamesAreAuthoritative(t *testing.T) {
	rows, cols, err := Standardize(types.Columns{
		Names:  []string{"Flux", "ID"},
		Values: [][]any{{1.5}, {9}},
	}, obsDeclared)
	require.NoError(t, err)
	assert.Equal(t, []string{"Flux", "ID"}, cols)
	assert.Equal(t, [][]any{{1.5, 9}}, rows)
}

func TestStandardize_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want error
	}{
		{"short positional row", []any{1, "a"}, types.ErrArity},
		{"long positional row", types.PositionalRow{1, "a", 2.5, 0}, types.ErrArity},
		{"ragged columns", types.Columns{Names: []string{"id", "name"}, Values: [][]any{{1, 2}, {"a"}}}, types.ErrArity},
		{"names without values", types.Columns{Names: []string{"id"}, Values: nil}, types.ErrArity},
		{"keyed records with different keys", []map[string]any{{"id": 1}, {"name": "a"}}, types.ErrArity},
		{"keyed records with extra key", types.KeyedRecords{{"id": 1}, {"id": 2, "name": "b"}}, types.ErrArity},
		{"empty map", map[string]any{}, types.ErrUnsupportedInput},
		{"empty rows", [][]any{}, types.ErrUnsupportedInput},
		{"empty columnar", types.Columns{}, types.ErrUnsupportedInput},
		{"scalar", 42, types.ErrUnsupportedInput},
		{"string", "id=1", types.ErrUnsupportedInput},
		{"nil", nil, types.ErrUnsupportedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Standardize(tt.in, obsDeclared)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStandardize_MultiRowPositionalIsUnchecked(t *testing.T) {
	rows, cols, err := Standardize([][]any{{1, "a"}, {2, "b", 3.5}}, obsDeclared)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, obsDeclared, cols)
}
