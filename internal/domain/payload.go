package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// payload remembers the JSON object a record was decoded from. Encoding the record again
// writes back fields the Go type does not model, and keeps the original encoding of modeled
// fields the caller has not changed (a numeric id stays a number).
type payload struct {
	raw map[string]json.RawMessage
	// decoded is the record's own encoding right after decoding; a modeled field whose
	// current encoding still matches it is unchanged.
	decoded map[string]json.RawMessage
}

func isJSONNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// decodeRecord unmarshals data into dst, which must be a pointer to a method-less copy of the
// record type, and captures the payload it came from.
func decodeRecord(data []byte, dst any) (*payload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, err
	}
	decoded, err := objectFields(dst)
	if err != nil {
		return nil, err
	}
	return &payload{raw: raw, decoded: decoded}, nil
}

// encodeRecord marshals v, a method-less copy of the record, merged over src.
func encodeRecord(v any, src *payload) ([]byte, error) {
	if src == nil {
		return json.Marshal(v)
	}
	cur, err := objectFields(v)
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(src.raw)+len(cur))
	for k, rv := range src.raw {
		if _, modeled := src.decoded[k]; !modeled {
			out[k] = rv
		}
	}
	for k, cv := range cur {
		if dv, ok := src.decoded[k]; ok && bytes.Equal(dv, cv) {
			if rv, ok := src.raw[k]; ok {
				out[k] = rv
			}
			continue
		}
		out[k] = cv
	}
	return json.Marshal(out)
}

func objectFields(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// decodeID accepts a JSON string or number. Numbers keep their literal text.
func decodeID(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	switch {
	case isJSONNull(data):
		return "", nil
	case len(data) > 0 && data[0] == '"':
		var s string
		err := json.Unmarshal(data, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number: %w", err)
	}
	return n.String(), nil
}
