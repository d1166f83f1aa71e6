// Package msgpack wraps MessagePack encoding for ticket and action
// payloads.
package msgpack

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Decode deserializes data into v, which must be a pointer. Empty input
// is an error: every wire payload carries at least the map header.
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("empty msgpack payload")
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode msgpack: %w", err)
	}
	return nil
}

// Encode serializes v into MessagePack.
func Encode(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode msgpack: %w", err)
	}
	return data, nil
}
