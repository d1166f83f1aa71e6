package typemap

import (
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// GeometryType is the Arrow extension type for SDO_GEOMETRY columns.
// Values are WKB bytes, as produced by SDO_UTIL.TO_WKBGEOMETRY on the
// server. The "geoarrow.wkb" name keeps the fields readable by DuckDB's
// spatial extension and by GeoParquet tooling.
type GeometryType struct {
	arrow.ExtensionBase
}

func NewGeometryType() *GeometryType {
	return &GeometryType{
		ExtensionBase: arrow.ExtensionBase{Storage: arrow.BinaryTypes.Binary},
	}
}

func (*GeometryType) ArrayType() reflect.Type {
	return reflect.TypeOf(GeometryArray{})
}

// GeometryArray wraps the binary storage of a geometry column.
type GeometryArray struct {
	array.ExtensionArrayBase
}

func (*GeometryType) ExtensionName() string { return "geoarrow.wkb" }

func (*GeometryType) String() string { return "extension<geoarrow.wkb>" }

func (*GeometryType) Serialize() string { return "" }

func (*GeometryType) Deserialize(storage arrow.DataType, _ string) (arrow.ExtensionType, error) {
	if !arrow.TypeEqual(storage, arrow.BinaryTypes.Binary) &&
		!arrow.TypeEqual(storage, arrow.BinaryTypes.LargeBinary) {
		return nil, fmt.Errorf("geometry storage must be binary, got %s", storage)
	}
	return &GeometryType{ExtensionBase: arrow.ExtensionBase{Storage: storage}}, nil
}

func (t *GeometryType) ExtensionEquals(other arrow.ExtensionType) bool {
	o, ok := other.(*GeometryType)
	return ok && arrow.TypeEqual(t.StorageType(), o.StorageType())
}

// NewGeometryField builds a WKB geometry field with the extension metadata
// DuckDB expects on geometry columns.
func NewGeometryField(name string, nullable bool) arrow.Field {
	ext := NewGeometryType()
	md := arrow.MetadataFrom(map[string]string{
		"ARROW:extension:name":     ext.ExtensionName(),
		"ARROW:extension:metadata": `{"encoding":"WKB"}`,
	})
	return arrow.Field{Name: name, Type: ext, Nullable: nullable, Metadata: md}
}

// DecodeWKB parses WKB bytes into an orb geometry. Used to reject corrupt
// geometry payloads before they reach a record batch.
func DecodeWKB(data []byte) (orb.Geometry, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty WKB payload")
	}
	return wkb.Unmarshal(data)
}

// EncodeWKB renders an orb geometry as WKB bytes for INSERT binds.
func EncodeWKB(geom orb.Geometry) ([]byte, error) {
	if geom == nil {
		return nil, fmt.Errorf("nil geometry")
	}
	return wkb.Marshal(geom)
}

func init() {
	_ = arrow.RegisterExtensionType(NewGeometryType())
}
