package types

import "strings"

// Tag is one of the four canonical column types.
type Tag string

// Column type tags.
const (
	TagText    Tag = "TEXT"
	TagInteger Tag = "INTEGER"
	TagReal    Tag = "REAL"
	TagBlob    Tag = "BLOB"
)

// Column is one declared column recovered from a table's creation text.
type Column struct {
	Name     string
	Type     string // declared type token, e.g. "VARCHAR(20)"
	Modifier string // remainder of the declaration, e.g. "NOT NULL DEFAULT 0"
	Tag      Tag

	// Generated columns are computed by the engine and take no value on
	// insert.
	Generated bool
}

// TableSchema is the ordered column list of one table. Order is
// authoritative for positional rows.
type TableSchema []Column

// Names returns the column names in declaration order.
func (s TableSchema) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Stored returns the columns that hold inserted values, leaving out
// generated ones.
func (s TableSchema) Stored() TableSchema {
	if s == nil {
		return nil
	}
	out := make(TableSchema, 0, len(s))
	for _, c := range s {
		if !c.Generated {
			out = append(out, c)
		}
	}
	return out
}

// Lookup finds a column by name, ignoring case.
func (s TableSchema) Lookup(name string) (Column, bool) {
	for _, c := range s {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// Index returns the position of the named column, ignoring case, or -1.
func (s TableSchema) Index(name string) int {
	for i, c := range s {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// Layout returns the field layout for the whole table.
func (s TableSchema) Layout() Layout {
	if s == nil {
		return nil
	}
	l := make(Layout, len(s))
	for i, c := range s {
		l[i] = Field{Name: c.Name, Tag: c.Tag}
	}
	return l
}

// ColumnDef is a column to create. Modifier is appended verbatim.
type ColumnDef struct {
	Name     string
	Type     string
	Modifier string
}

// Field is one named, tagged slot of a result record.
type Field struct {
	Name string
	Tag  Tag
}

// Layout is the ordered field list of a result record.
type Layout []Field

// Names returns the field names in order.
func (l Layout) Names() []string {
	names := make([]string, len(l))
	for i, f := range l {
		names[i] = f.Name
	}
	return names
}

// Record is one row aligned to a Layout. Values are int64, float64,
// string, []byte or nil according to the field tag.
type Record []any

// ResultSet is the typed result of a structured query. Records is never
// nil; an empty result has zero records.
type ResultSet struct {
	Layout  Layout
	Records []Record
}

// Len returns the number of records.
func (r *ResultSet) Len() int { return len(r.Records) }

// Maps returns the records keyed by field name.
func (r *ResultSet) Maps() []map[string]any {
	out := make([]map[string]any, 0, len(r.Records))
	for _, rec := range r.Records {
		m := make(map[string]any, len(r.Layout))
		for i, f := range r.Layout {
			m[f.Name] = rec[i]
		}
		out = append(out, m)
	}
	return out
}

// QueryOptions selects rows from one table. Zero values mean all columns,
// no filter, no grouping, no ordering and no limit.
type QueryOptions struct {
	Table   string
	Columns []string
	Where   string
	Args    []any
	GroupBy []string
	OrderBy string
	Limit   int
}

// ConflictAction selects the insert conflict policy.
type ConflictAction string

// Conflict policies.
const (
	ConflictNone      ConflictAction = ""
	ConflictUpdate    ConflictAction = "update"
	ConflictIgnore    ConflictAction = "ignore"
	ConflictReplace   ConflictAction = "replace"
	ConflictDoNothing ConflictAction = "nothing"
)

// OnConflict describes how an insert resolves uniqueness violations.
// Target names the columns of the arbitrating constraint and is required
// for ConflictUpdate.
type OnConflict struct {
	Action ConflictAction
	Target []string
}

// InsertOptions collects optional insert behavior.
type InsertOptions struct {
	Conflict OnConflict
}

// InsertOption configures an insert.
type InsertOption func(*InsertOptions)

// WithConflict sets the conflict policy.
func WithConflict(action ConflictAction, target ...string) InsertOption {
	return func(o *InsertOptions) {
		o.Conflict = OnConflict{Action: action, Target: target}
	}
}
