// Package typemap converts between Oracle column metadata and Arrow logical
// types, between driver cell values and Arrow builders, and between Arrow
// types and Oracle DDL type strings. All functions are pure; no state.
package typemap

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/orabridge/conn"
)

// DataType maps one Oracle column to its Arrow logical type. The mapping is
// total: unknown Oracle types fall back to utf8 instead of failing.
//
// NUMBER follows the dictionary precision/scale:
//   - precision absent, scale absent: unconstrained NUMBER, float64
//   - scale 0 (or absent with precision set): integer of the narrowest
//     width that holds the precision (4 -> int16, 9 -> int32, 18 -> int64),
//     wider integers become decimal128(p, 0)
//   - fractional scale: decimal128(p, s)
func DataType(col conn.ColumnInfo) arrow.DataType {
	name := baseTypeName(col.TypeName)

	switch name {
	case "NUMBER":
		return numberType(col.Precision, col.Scale)
	case "FLOAT", "BINARY_DOUBLE":
		return arrow.PrimitiveTypes.Float64
	case "BINARY_FLOAT":
		return arrow.PrimitiveTypes.Float32
	case "VARCHAR2", "NVARCHAR2", "CHAR", "NCHAR", "LONG",
		"CLOB", "NCLOB", "ROWID", "UROWID", "JSON", "XMLTYPE":
		return arrow.BinaryTypes.String
	case "RAW", "LONG RAW", "BLOB", "BFILE":
		return arrow.BinaryTypes.Binary
	case "DATE", "TIMESTAMP", "TIMESTAMP WITH LOCAL TIME ZONE":
		// Oracle DATE always carries time of day.
		return &arrow.TimestampType{Unit: arrow.Microsecond}
	case "TIMESTAMP WITH TIME ZONE":
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	case "INTERVAL YEAR TO MONTH", "INTERVAL DAY TO SECOND":
		return arrow.FixedWidthTypes.MonthDayNanoInterval
	case "SDO_GEOMETRY":
		return NewGeometryType()
	default:
		return arrow.BinaryTypes.String
	}
}

func numberType(precision, scale int) arrow.DataType {
	if precision == 0 && scale == conn.ScaleUnspecified {
		return arrow.PrimitiveTypes.Float64
	}
	if scale == 0 || scale == conn.ScaleUnspecified {
		switch {
		case precision == 0:
			// Precision absent with a declared zero scale, NUMBER(*, 0).
			// Such a column holds up to 38 digits.
			return &arrow.Decimal128Type{Precision: 38, Scale: 0}
		case precision <= 4:
			return arrow.PrimitiveTypes.Int16
		case precision <= 9:
			return arrow.PrimitiveTypes.Int32
		case precision <= 18:
			return arrow.PrimitiveTypes.Int64
		default:
			return &arrow.Decimal128Type{Precision: int32(precision), Scale: 0}
		}
	}
	p := int32(precision)
	if p == 0 {
		p = 38
	}
	return &arrow.Decimal128Type{Precision: p, Scale: int32(scale)}
}

// Field maps one Oracle column to an Arrow field, preserving nullability.
// SDO_GEOMETRY columns become WKB extension fields.
func Field(col conn.ColumnInfo) arrow.Field {
	if IsGeometry(col) {
		return NewGeometryField(col.Name, col.Nullable)
	}
	return arrow.Field{
		Name:     col.Name,
		Type:     DataType(col),
		Nullable: col.Nullable,
	}
}

// Schema maps a full column list to an Arrow schema. Field order follows
// the column order, which callers rely on for positional references.
func Schema(cols []conn.ColumnInfo) *arrow.Schema {
	fields := make([]arrow.Field, len(cols))
	for i, col := range cols {
		fields[i] = Field(col)
	}
	return arrow.NewSchema(fields, nil)
}

// IsGeometry reports whether the column holds Oracle Spatial geometries.
func IsGeometry(col conn.ColumnInfo) bool {
	return baseTypeName(col.TypeName) == "SDO_GEOMETRY"
}

// baseTypeName strips the precision suffix Oracle embeds in dictionary
// type names, "TIMESTAMP(6) WITH TIME ZONE" -> "TIMESTAMP WITH TIME ZONE".
func baseTypeName(typeName string) string {
	name := strings.ToUpper(strings.TrimSpace(typeName))
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		// Object types arrive qualified, e.g. "MDSYS.SDO_GEOMETRY".
		name = name[i+1:]
	}
	for {
		open := strings.IndexByte(name, '(')
		if open < 0 {
			return name
		}
		end := strings.IndexByte(name[open:], ')')
		if end < 0 {
			return strings.TrimSpace(name[:open])
		}
		name = strings.TrimSpace(name[:open]) + name[open+end+1:]
	}
}

// OracleDDLType renders the Oracle column type for an Arrow type when
// creating tables. The write mapping is narrower than the read mapping:
// text gets a fixed VARCHAR2 length and integers a fixed NUMBER precision,
// so a created table read back may widen types. That asymmetry is accepted.
func OracleDDLType(dt arrow.DataType) string {
	switch t := dt.(type) {
	case *arrow.BooleanType:
		return "NUMBER(1)"
	case *arrow.Int8Type, *arrow.Uint8Type:
		return "NUMBER(3)"
	case *arrow.Int16Type, *arrow.Uint16Type:
		return "NUMBER(5)"
	case *arrow.Int32Type, *arrow.Uint32Type:
		return "NUMBER(10)"
	case *arrow.Int64Type, *arrow.Uint64Type:
		return "NUMBER(19)"
	case *arrow.Float32Type:
		return "BINARY_FLOAT"
	case *arrow.Float64Type:
		return "BINARY_DOUBLE"
	case *arrow.Decimal128Type:
		if t.Scale == 0 {
			return fmt.Sprintf("NUMBER(%d)", t.Precision)
		}
		return fmt.Sprintf("NUMBER(%d,%d)", t.Precision, t.Scale)
	case *arrow.Date32Type, *arrow.Date64Type:
		return "DATE"
	case *arrow.TimestampType:
		if t.TimeZone != "" {
			return "TIMESTAMP WITH TIME ZONE"
		}
		return "TIMESTAMP"
	case *arrow.MonthDayNanoIntervalType:
		return "INTERVAL DAY(9) TO SECOND(9)"
	case *arrow.BinaryType, *arrow.LargeBinaryType, *arrow.FixedSizeBinaryType:
		return "BLOB"
	case *GeometryType:
		return "SDO_GEOMETRY"
	case *arrow.StringType, *arrow.LargeStringType:
		return "VARCHAR2(4000)"
	default:
		return "VARCHAR2(4000)"
	}
}
