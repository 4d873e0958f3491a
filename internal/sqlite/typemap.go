package sqlite

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

var hostTypes = map[types.Tag]reflect.Type{
	types.TagText:    reflect.TypeFor[string](),
	types.TagInteger: reflect.TypeFor[int64](),
	types.TagReal:    reflect.TypeFor[float64](),
	types.TagBlob:    reflect.TypeFor[[]byte](),
}

// HostType returns the Go type FromStore yields for tag, or nil for an
// unknown tag.
func HostType(tag types.Tag) reflect.Type {
	return hostTypes[tag]
}

// TagOf reports the column tag a host value maps to. nil maps to no tag.
func TagOf(v any) (types.Tag, error) {
	_, tag, err := ToStore(v)
	return tag, err
}

// ToStore converts a host value to the driver value for its tag. Every
// signed and unsigned integer width widens to int64 and every float width
// to float64. nil passes through with an empty tag.
func ToStore(v any) (any, types.Tag, error) {
	switch x := v.(type) {
	case nil:
		return nil, "", nil
	case string:
		return x, types.TagText, nil
	case []byte:
		return x, types.TagBlob, nil
	case int64:
		return x, types.TagInteger, nil
	case int:
		return int64(x), types.TagInteger, nil
	case float64:
		return x, types.TagReal, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), types.TagInteger, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, "", fmt.Errorf("%w: %T value %d overflows INTEGER", types.ErrUnsupportedType, v, u)
		}
		return int64(u), types.TagInteger, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), types.TagReal, nil
	case reflect.String:
		return rv.String(), types.TagText, nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), types.TagBlob, nil
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, "", nil
		}
		return ToStore(rv.Elem().Interface())
	}
	return nil, "", fmt.Errorf("%w: %T", types.ErrUnsupportedType, v)
}

// TagForDeclared maps a declared column type to its tag using the engine's
// affinity rules. NUMERIC affinity maps to REAL.
func TagForDeclared(decl string) types.Tag {
	d := strings.ToUpper(decl)
	switch {
	case strings.Contains(d, "INT"):
		return types.TagInteger
	case strings.Contains(d, "CHAR"), strings.Contains(d, "CLOB"), strings.Contains(d, "TEXT"):
		return types.TagText
	case d == "", strings.Contains(d, "BLOB"):
		return types.TagBlob
	default:
		return types.TagReal
	}
}

// ColumnTag is the tag a declared column enforces on insert. Declarations
// that only get NUMERIC affinity, such as DATETIME, BOOLEAN or DECIMAL(10,2),
// enforce none and read back as stored.
func ColumnTag(decl string) types.Tag {
	tag := TagForDeclared(decl)
	if tag != types.TagReal {
		return tag
	}
	d := strings.ToUpper(decl)
	if strings.Contains(d, "REAL") || strings.Contains(d, "FLOA") || strings.Contains(d, "DOUB") {
		return tag
	}
	return ""
}

// CheckTag converts v for a column of the given tag. A value whose own tag
// differs from the column's is a mismatch; no cast is attempted.
func CheckTag(v any, tag types.Tag) (any, error) {
	sv, got, err := ToStore(v)
	if err != nil {
		return nil, err
	}
	if sv == nil || tag == "" || got == tag {
		return sv, nil
	}
	return nil, fmt.Errorf("%w: %T is %s, column is %s", types.ErrTypeMismatch, v, got, tag)
}

// FromStore converts an engine value to the fixed host type of tag, so
// every row of one result carries the same Go types.
// An empty tag returns the engine value as stored; times the driver parsed
// from text come back as RFC 3339 text.
func FromStore(v any, tag types.Tag) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch tag {
	case "":
		switch x := v.(type) {
		case []byte:
			return append([]byte(nil), x...), nil
		case time.Time:
			return x.Format(time.RFC3339Nano), nil
		}
		return v, nil
	case types.TagInteger:
		switch x := v.(type) {
		case int64:
			return x, nil
		case float64:
			if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
				return int64(x), nil
			}
		case string:
			if n, err := strconv.ParseInt(x, 10, 64); err == nil {
				return n, nil
			}
		case []byte:
			if n, err := strconv.ParseInt(string(x), 10, 64); err == nil {
				return n, nil
			}
		case bool:
			if x {
				return int64(1), nil
			}
			return int64(0), nil
		case time.Time:
			return x.Unix(), nil
		}
	case types.TagReal:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int64:
			return float64(x), nil
		case string:
			if f, err := strconv.ParseFloat(x, 64); err == nil {
				return f, nil
			}
		case []byte:
			if f, err := strconv.ParseFloat(string(x), 64); err == nil {
				return f, nil
			}
		case time.Time:
			return float64(x.UnixNano()) / 1e9, nil
		}
	case types.TagText:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return string(x), nil
		case int64:
			return strconv.FormatInt(x, 10), nil
		case float64:
			return strconv.FormatFloat(x, 'g', -1, 64), nil
		case time.Time:
			return x.Format(time.RFC3339Nano), nil
		}
	case types.TagBlob:
		switch x := v.(type) {
		case []byte:
			return append([]byte(nil), x...), nil
		default:
			// Untyped columns hold any engine value as-is.
			return x, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot read %T as %s", types.ErrTypeMismatch, v, tag)
}

// fromStoreRow converts one scanned row in place against layout.
func fromStoreRow(row []any, layout types.Layout) (types.Record, error) {
	rec := make(types.Record, len(row))
	for i, v := range row {
		out, err := FromStore(v, layout[i].Tag)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", layout[i].Name, err)
		}
		rec[i] = out
	}
	return rec, nil
}
