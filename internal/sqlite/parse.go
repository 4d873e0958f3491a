package sqlite

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// Leading keywords of table-level constraints inside a column list.
var tableConstraintWords = []string{"CONSTRAINT", "PRIMARY", "UNIQUE", "CHECK", "FOREIGN"}

// Leading keywords of column constraints; a column whose definition starts
// with one of these has no declared type.
var columnConstraintWords = map[string]bool{
	"PRIMARY": true, "NOT": true, "NULL": true, "UNIQUE": true, "CHECK": true,
	"DEFAULT": true, "COLLATE": true, "REFERENCES": true, "GENERATED": true,
	"AS": true, "CONSTRAINT": true,
}

// ParseCreateTable recovers the ordered column list from a table's
// creation text as kept by the catalog. It needs no engine.
func ParseCreateTable(sql string) (types.TableSchema, error) {
	open := indexOutsideQuotes(sql, '(')
	if open < 0 {
		return nil, fmt.Errorf("%w: no column list in %q", types.ErrUnsupportedInput, sql)
	}
	end := matchParen(sql, open)
	if end < 0 {
		return nil, fmt.Errorf("%w: unbalanced column list in %q", types.ErrUnsupportedInput, sql)
	}

	schema := types.TableSchema{}
	for _, def := range splitTopLevel(sql[open+1:end], ',') {
		def = strings.TrimSpace(def)
		if def == "" || isTableConstraint(def) {
			continue
		}
		col, err := parseColumnDef(def)
		if err != nil {
			return nil, err
		}
		schema = append(schema, col)
	}
	return schema, nil
}

func parseColumnDef(def string) (types.Column, error) {
	name, rest, err := readIdent(def)
	if err != nil {
		return types.Column{}, err
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

	typ, mod := readTypeToken(rest)
	if columnConstraintWords[strings.ToUpper(typ)] {
		typ, mod = "", rest
	}
	mod = strings.TrimSpace(mod)
	return types.Column{
		Name:      name,
		Type:      typ,
		Modifier:  mod,
		Tag:       ColumnTag(typ),
		Generated: isGenerated(mod),
	}, nil
}

// isGenerated reports whether a column modifier carries an AS (expr)
// clause, with or without GENERATED ALWAYS, outside quotes and parentheses.
func isGenerated(mod string) bool {
	upper := strings.ToUpper(mod)
	depth := 0
	var quote byte
	for i := 0; i < len(upper); i++ {
		c := upper[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '[':
			quote = ']'
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && strings.HasPrefix(upper[i:], "AS"):
			if i > 0 && !unicode.IsSpace(rune(upper[i-1])) && upper[i-1] != ')' {
				continue
			}
			rest := strings.TrimLeftFunc(upper[i+2:], unicode.IsSpace)
			if strings.HasPrefix(rest, "(") {
				return true
			}
		}
	}
	return false
}

// readIdent reads one possibly quoted identifier and returns the rest.
func readIdent(s string) (string, string, error) {
	if s == "" {
		return "", "", fmt.Errorf("%w: empty column definition", types.ErrUnsupportedInput)
	}
	closer := byte(0)
	switch s[0] {
	case '"', '`', '\'':
		closer = s[0]
	case '[':
		closer = ']'
	}
	if closer == 0 {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			return s, "", nil
		}
		return s[:i], s[i:], nil
	}

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != closer {
			b.WriteByte(s[i])
			continue
		}
		// Doubled quote is an escaped quote, except inside brackets.
		if closer != ']' && i+1 < len(s) && s[i+1] == closer {
			b.WriteByte(closer)
			i++
			continue
		}
		return b.String(), s[i+1:], nil
	}
	return "", "", fmt.Errorf("%w: unterminated identifier in %q", types.ErrUnsupportedInput, s)
}

// readTypeToken splits at the first whitespace run. A parenthesized size
// such as DECIMAL(10, 2) stays with the type, even after a space.
func readTypeToken(s string) (string, string) {
	i := 0
	for i < len(s) && !unicode.IsSpace(rune(s[i])) && s[i] != '(' {
		i++
	}
	j := i
	for j < len(s) && unicode.IsSpace(rune(s[j])) {
		j++
	}
	if j < len(s) && s[j] == '(' && i > 0 {
		if end := matchParen(s, j); end >= 0 {
			return s[:i] + s[j:end+1], s[end+1:]
		}
	}
	return s[:i], s[i:]
}

func isTableConstraint(def string) bool {
	upper := strings.ToUpper(def)
	for _, w := range tableConstraintWords {
		if !strings.HasPrefix(upper, w) {
			continue
		}
		if len(upper) == len(w) {
			return true
		}
		next := rune(upper[len(w)])
		if unicode.IsSpace(next) || next == '(' {
			return true
		}
	}
	return false
}

// splitTopLevel splits s on sep outside quotes and parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '[':
			quote = ']'
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func indexOutsideQuotes(s string, target byte) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '[':
			quote = ']'
		case c == target:
			return i
		}
	}
	return -1
}

// matchParen returns the index of the parenthesis closing s[open].
func matchParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '[':
			quote = ']'
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
