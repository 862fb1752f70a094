// Package snapshot encodes record collections as one JSON payload per record, the row
// format shared by the SQL-backed secondary stores.
package snapshot

import (
	"encoding/json"
	"fmt"
)

// Encode marshals each record into its own payload, preserving order.
func Encode[T any](records []T) ([][]byte, error) {
	out := make([][]byte, 0, len(records))
	for i, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// Decode unmarshals payloads in order. It always returns a non-nil slice on success.
func Decode[T any](payloads [][]byte) ([]T, error) {
	out := make([]T, 0, len(payloads))
	for i, p := range payloads {
		var v T
		if err := json.Unmarshal(p, &v); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
