package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// filterExpr is a small participle grammar for the CLI's convenience
// filter syntax, e.g. `age>30 AND city="NYC" AND note ISNULL`. It lives
// entirely in the CLI, not the engine: the engine never parses text, only
// query.Query (§1's SQL-parser non-goal binds the core, not this front
// end), mirroring the teacher's OSIS reference grammar in core/ir/ref.go.
type filterExpr struct {
	Clauses []*filterClause `@@ ( "AND" @@ )*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type filterClause struct {
	Column string  `@Ident`
	Op     string  `@( "=" | "!=" | "<=" | ">=" | "<" | ">" | "GLOB" | "REGEXP" | "ISNULL" | "NOTNULL" )`
	Value  *string `( @String | @Float | @Int )?`
}

var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Float", Pattern: `[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Op", Pattern: `!=|<=|>=|=|<|>`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var filterParser = participle.MustBuild[filterExpr](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
)

// RawConstraint is a parsed filter clause before its column name has been
// resolved against a table's schema.
type RawConstraint struct {
	Column string
	Op     column.FilterOp
	Value  sqlvalue.Value
}

// ParseFilter parses expr into a flat AND-list of constraints. An empty
// expr yields no constraints.
func ParseFilter(expr string) ([]RawConstraint, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	parsed, err := filterParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %q: %w", expr, err)
	}

	out := make([]RawConstraint, 0, len(parsed.Clauses))
	for _, c := range parsed.Clauses {
		op, needsValue, err := filterOp(c.Op)
		if err != nil {
			return nil, err
		}
		rc := RawConstraint{Column: c.Column, Op: op}
		if needsValue {
			if c.Value == nil {
				return nil, fmt.Errorf("%s %s requires a value", c.Column, c.Op)
			}
			rc.Value = parseFilterValue(*c.Value)
		}
		out = append(out, rc)
	}
	return out, nil
}

func filterOp(token string) (op column.FilterOp, needsValue bool, err error) {
	switch token {
	case "=":
		return column.Eq, true, nil
	case "!=":
		return column.Ne, true, nil
	case "<":
		return column.Lt, true, nil
	case "<=":
		return column.Le, true, nil
	case ">":
		return column.Gt, true, nil
	case ">=":
		return column.Ge, true, nil
	case "GLOB":
		return column.Glob, true, nil
	case "REGEXP":
		return column.Regex, true, nil
	case "ISNULL":
		return column.IsNull, false, nil
	case "NOTNULL":
		return column.IsNotNull, false, nil
	default:
		return 0, false, fmt.Errorf("unknown filter operator %q", token)
	}
}

// parseFilterValue classifies a raw matched token as a quoted string, an
// integer, a float, or (falling through) a bare word treated as a string.
func parseFilterValue(raw string) sqlvalue.Value {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return sqlvalue.Str(raw[1 : len(raw)-1])
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return sqlvalue.Long(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return sqlvalue.Double(f)
	}
	return sqlvalue.Str(raw)
}
