package catalog

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paulmach/orb"

	"github.com/hugr-lab/orabridge/typemap"
)

var _ array.RecordReader = (*scanReader)(nil)

func TestInsertValueGeometryStorage(t *testing.T) {
	want, err := typemap.EncodeWKB(orb.Point{11.5, 48.1})
	if err != nil {
		t.Fatalf("EncodeWKB: %v", err)
	}

	bld := array.NewBinaryBuilder(memory.DefaultAllocator, arrow.BinaryTypes.Binary)
	defer bld.Release()
	bld.Append(want)
	bld.AppendNull()
	storage := bld.NewArray()
	defer storage.Release()

	ext := array.NewExtensionArrayWithStorage(typemap.NewGeometryType(), storage)
	defer ext.Release()

	v, err := columnValue(ext, 0)
	if err != nil {
		t.Fatalf("columnValue: %v", err)
	}
	got, ok := v.([]byte)
	if !ok {
		t.Fatalf("columnValue = %T, want []byte", v)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("columnValue = %x, want %x", got, want)
	}

	if v, err := columnValue(ext, 1); err != nil || v != nil {
		t.Errorf("null cell = (%v, %v), want (nil, nil)", v, err)
	}
}
