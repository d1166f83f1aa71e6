package filter

// LogicalTypeID identifies the engine's data types as they appear in the
// serialized filter JSON.
type LogicalTypeID string

const (
	TypeIDBoolean     LogicalTypeID = "BOOLEAN"
	TypeIDTinyInt     LogicalTypeID = "TINYINT"
	TypeIDSmallInt    LogicalTypeID = "SMALLINT"
	TypeIDInteger     LogicalTypeID = "INTEGER"
	TypeIDBigInt      LogicalTypeID = "BIGINT"
	TypeIDUTinyInt    LogicalTypeID = "UTINYINT"
	TypeIDUSmallInt   LogicalTypeID = "USMALLINT"
	TypeIDUInteger    LogicalTypeID = "UINTEGER"
	TypeIDUBigInt     LogicalTypeID = "UBIGINT"
	TypeIDHugeInt     LogicalTypeID = "HUGEINT"
	TypeIDFloat       LogicalTypeID = "FLOAT"
	TypeIDDouble      LogicalTypeID = "DOUBLE"
	TypeIDDecimal     LogicalTypeID = "DECIMAL"
	TypeIDChar        LogicalTypeID = "CHAR"
	TypeIDVarchar     LogicalTypeID = "VARCHAR"
	TypeIDBlob        LogicalTypeID = "BLOB"
	TypeIDDate        LogicalTypeID = "DATE"
	TypeIDTime        LogicalTypeID = "TIME"
	TypeIDTimestamp   LogicalTypeID = "TIMESTAMP"
	TypeIDTimestampTZ LogicalTypeID = "TIMESTAMP_TZ"
)

// typeAliases folds the engine's alternate spellings onto canonical IDs.
var typeAliases = map[LogicalTypeID]LogicalTypeID{
	"TIMESTAMP WITH TIME ZONE":    TypeIDTimestampTZ,
	"TIMESTAMPTZ":                 TypeIDTimestampTZ,
	"TIMESTAMP WITHOUT TIME ZONE": TypeIDTimestamp,
	"INT":                         TypeIDInteger,
	"INT4":                        TypeIDInteger,
	"INT8":                        TypeIDBigInt,
	"INT2":                        TypeIDSmallInt,
	"INT1":                        TypeIDTinyInt,
	"FLOAT4":                      TypeIDFloat,
	"FLOAT8":                      TypeIDDouble,
	"REAL":                        TypeIDFloat,
	"STRING":                      TypeIDVarchar,
	"TEXT":                        TypeIDVarchar,
	"BOOL":                        TypeIDBoolean,
}

// Normalize returns the canonical ID for any alias the engine may send.
func (t LogicalTypeID) Normalize() LogicalTypeID {
	if mapped, ok := typeAliases[t]; ok {
		return mapped
	}
	return t
}

// LogicalType is an engine type with optional decimal width information.
type LogicalType struct {
	ID      LogicalTypeID
	Decimal *DecimalTypeInfo
}

// DecimalTypeInfo carries precision and scale for DECIMAL constants.
type DecimalTypeInfo struct {
	Width int `json:"width"`
	Scale int `json:"scale"`
}

// Value is a typed constant from the filter tree. Data holds the
// type-specific representation produced by the parser: int64, uint64,
// float64, bool, string, []byte or HugeInt.
type Value struct {
	Type   LogicalType
	IsNull bool
	Data   any
}

// HugeInt is the engine's 128-bit integer wire form.
type HugeInt struct {
	Upper int64  `json:"upper"`
	Lower uint64 `json:"lower"`
}
