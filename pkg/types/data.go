package types

// The store accepts three input shapes. Each shape has a named variant
// here; the equivalent plain Go shapes noted on each type are accepted too.

// Columns is a columnar table: Values[i] holds every row's value for
// Names[i]. The caller's names are used as-is.
type Columns struct {
	Names  []string
	Values [][]any
}

// Rows returns the number of rows, taken from the first column.
func (c Columns) Rows() int {
	if len(c.Values) == 0 {
		return 0
	}
	return len(c.Values[0])
}

// KeyedRecord is one field-keyed record. Also accepted as map[string]any.
type KeyedRecord map[string]any

// KeyedRecords is several records sharing one key set. Also accepted as
// []map[string]any.
type KeyedRecords []KeyedRecord

// PositionalRow is one row aligned to the table's declared column order.
// Also accepted as []any.
type PositionalRow []any

// PositionalRows is several positional rows. Also accepted as [][]any.
type PositionalRows [][]any
