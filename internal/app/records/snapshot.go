package records

import (
	"context"
	"encoding/json"
	"fmt"
)

// readSnapshot reads a JSON array stored under key. An absent key yields an empty slice.
func readSnapshot[T any](ctx context.Context, s *Service, key string) ([]T, error) {
	raw, ok, err := s.primary.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: key %q: %w", ErrCorruptSnapshot, key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// writeSnapshot replaces the value under key with items encoded as a JSON array.
func writeSnapshot[T any](ctx context.Context, s *Service, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.primary.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
