package typemap

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/orabridge/conn"
)

func TestNumberMapping(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		scale     int
		want      arrow.DataType
	}{
		{"unconstrained", 0, conn.ScaleUnspecified, arrow.PrimitiveTypes.Float64},
		{"int16 low", 1, 0, arrow.PrimitiveTypes.Int16},
		{"int16 high", 4, 0, arrow.PrimitiveTypes.Int16},
		{"int32 low", 5, 0, arrow.PrimitiveTypes.Int32},
		{"int32 high", 9, 0, arrow.PrimitiveTypes.Int32},
		{"int64 low", 10, 0, arrow.PrimitiveTypes.Int64},
		{"int64 high", 18, 0, arrow.PrimitiveTypes.Int64},
		{"decimal low", 19, 0, &arrow.Decimal128Type{Precision: 19, Scale: 0}},
		{"decimal high", 38, 0, &arrow.Decimal128Type{Precision: 38, Scale: 0}},
		{"integer unspecified scale", 4, conn.ScaleUnspecified, arrow.PrimitiveTypes.Int16},
		{"fractional", 10, 2, &arrow.Decimal128Type{Precision: 10, Scale: 2}},
		{"fractional no precision", 0, 5, &arrow.Decimal128Type{Precision: 38, Scale: 5}},
		{"star zero scale", 0, 0, &arrow.Decimal128Type{Precision: 38, Scale: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := conn.ColumnInfo{Name: "N", TypeName: "NUMBER", Precision: tt.precision, Scale: tt.scale}
			got := DataType(col)
			if !arrow.TypeEqual(got, tt.want) {
				t.Errorf("DataType(NUMBER(%d,%d)) = %s, want %s", tt.precision, tt.scale, got, tt.want)
			}
		})
	}
}

func TestDataTypeNonNumeric(t *testing.T) {
	tests := []struct {
		typeName string
		want     arrow.DataType
	}{
		{"VARCHAR2", arrow.BinaryTypes.String},
		{"NVARCHAR2", arrow.BinaryTypes.String},
		{"CHAR", arrow.BinaryTypes.String},
		{"CLOB", arrow.BinaryTypes.String},
		{"ROWID", arrow.BinaryTypes.String},
		{"RAW", arrow.BinaryTypes.Binary},
		{"BLOB", arrow.BinaryTypes.Binary},
		{"BINARY_FLOAT", arrow.PrimitiveTypes.Float32},
		{"BINARY_DOUBLE", arrow.PrimitiveTypes.Float64},
		{"FLOAT", arrow.PrimitiveTypes.Float64},
		{"DATE", &arrow.TimestampType{Unit: arrow.Microsecond}},
		{"TIMESTAMP(6)", &arrow.TimestampType{Unit: arrow.Microsecond}},
		{"TIMESTAMP(6) WITH LOCAL TIME ZONE", &arrow.TimestampType{Unit: arrow.Microsecond}},
		{"TIMESTAMP(6) WITH TIME ZONE", &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}},
		{"INTERVAL DAY(2) TO SECOND(6)", arrow.FixedWidthTypes.MonthDayNanoInterval},
		{"INTERVAL YEAR(2) TO MONTH", arrow.FixedWidthTypes.MonthDayNanoInterval},
		{"SOME_OBJECT_TYPE", arrow.BinaryTypes.String},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got := DataType(conn.ColumnInfo{Name: "C", TypeName: tt.typeName})
			if !arrow.TypeEqual(got, tt.want) {
				t.Errorf("DataType(%s) = %s, want %s", tt.typeName, got, tt.want)
			}
		})
	}
}

func TestGeometryColumn(t *testing.T) {
	col := conn.ColumnInfo{Name: "SHAPE", TypeName: "MDSYS.SDO_GEOMETRY", Nullable: true}
	if !IsGeometry(col) {
		t.Fatal("IsGeometry(SDO_GEOMETRY) = false")
	}
	f := Field(col)
	if _, ok := f.Type.(*GeometryType); !ok {
		t.Errorf("Field(SDO_GEOMETRY).Type = %T, want *GeometryType", f.Type)
	}
	if f.Metadata.FindKey("ARROW:extension:name") < 0 {
		t.Error("geometry field is missing extension metadata")
	}
}

func TestSchemaPreservesColumnOrder(t *testing.T) {
	cols := []conn.ColumnInfo{
		{Name: "ID", TypeName: "NUMBER", Precision: 10, Scale: 0},
		{Name: "NAME", TypeName: "VARCHAR2", CharLength: 100, Nullable: true},
		{Name: "HIRED", TypeName: "DATE", Nullable: true},
	}
	s := Schema(cols)
	if s.NumFields() != 3 {
		t.Fatalf("NumFields() = %d, want 3", s.NumFields())
	}
	for i, want := range []string{"ID", "NAME", "HIRED"} {
		if got := s.Field(i).Name; got != want {
			t.Errorf("Field(%d).Name = %q, want %q", i, got, want)
		}
	}
	if s.Field(0).Nullable {
		t.Error("ID should not be nullable")
	}
}

func TestOracleDDLType(t *testing.T) {
	tests := []struct {
		dt   arrow.DataType
		want string
	}{
		{arrow.FixedWidthTypes.Boolean, "NUMBER(1)"},
		{arrow.PrimitiveTypes.Int16, "NUMBER(5)"},
		{arrow.PrimitiveTypes.Int32, "NUMBER(10)"},
		{arrow.PrimitiveTypes.Int64, "NUMBER(19)"},
		{arrow.PrimitiveTypes.Float32, "BINARY_FLOAT"},
		{arrow.PrimitiveTypes.Float64, "BINARY_DOUBLE"},
		{&arrow.Decimal128Type{Precision: 12, Scale: 3}, "NUMBER(12,3)"},
		{&arrow.Decimal128Type{Precision: 20}, "NUMBER(20)"},
		{arrow.BinaryTypes.String, "VARCHAR2(4000)"},
		{arrow.BinaryTypes.Binary, "BLOB"},
		{&arrow.TimestampType{Unit: arrow.Microsecond}, "TIMESTAMP"},
		{&arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}, "TIMESTAMP WITH TIME ZONE"},
		{arrow.PrimitiveTypes.Date32, "DATE"},
		{arrow.FixedWidthTypes.MonthDayNanoInterval, "INTERVAL DAY(9) TO SECOND(9)"},
	}

	for _, tt := range tests {
		if got := OracleDDLType(tt.dt); got != tt.want {
			t.Errorf("OracleDDLType(%s) = %q, want %q", tt.dt, got, tt.want)
		}
	}
}
