package column

import "strings"

// Type is the declared SQL type a column is exposed as at the bridge
// boundary (§6): one of BIGINT, UNSIGNED INT, INT, DOUBLE, TEXT.
type Type uint8

const (
	TypeBigInt Type = iota
	TypeUnsignedInt
	TypeInt
	TypeDouble
	TypeText
)

func (t Type) String() string {
	switch t {
	case TypeBigInt:
		return "BIGINT"
	case TypeUnsignedInt:
		return "UNSIGNED INT"
	case TypeInt:
		return "INT"
	case TypeDouble:
		return "DOUBLE"
	case TypeText:
		return "TEXT"
	default:
		return "UNKNOWN"
	}
}

// ParseType classifies a declared type name into one of the five storage
// kinds the bridge's schema declaration supports, matching SQLite's
// substring-based type affinity rules (see
// core/sqlite/internal/schema/affinity.go for the richer, general-purpose
// version this is narrowed from): the bridge itself only ever declares one
// of the five concrete kinds below, so the broader NUMERIC/BLOB/NONE
// affinities have no home here.
func ParseType(typeName string) Type {
	upper := strings.ToUpper(typeName)
	switch {
	case strings.Contains(upper, "BIGINT"):
		return TypeBigInt
	case strings.Contains(upper, "UNSIGNED"):
		return TypeUnsignedInt
	case strings.Contains(upper, "INT"):
		return TypeInt
	case strings.Contains(upper, "DOUB"), strings.Contains(upper, "REAL"), strings.Contains(upper, "FLOA"):
		return TypeDouble
	case strings.Contains(upper, "CHAR"), strings.Contains(upper, "TEXT"), strings.Contains(upper, "CLOB"):
		return TypeText
	default:
		return TypeInt
	}
}

// Info describes a single column for schema declaration and the cost
// model, mirroring the teacher's ColumnInfo/TableInfo naming
// (core/sqlite/internal/planner/types.go) while carrying the flags and
// type tag this engine's Column struct actually needs.
type Info struct {
	Name    string
	Index   int
	Type    Type
	Flags   Flags
	RowLog  int16 // LogEst of the column's estimated distinct-value count
}
