package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Load decodes the JSON value stored under key into a T.
// If no value is stored, fallback is returned.
func Load[T any](ctx context.Context, s Store, key string, fallback T) (T, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return fallback, nil
	} else if err != nil {
		return fallback, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return fallback, fmt.Errorf("value for key %q is not valid: %w", key, err)
	}

	return value, nil
}

// Save stores value under key, encoded as JSON.
func Save[T any](ctx context.Context, s Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode value for key %q: %w", key, err)
	}

	return s.Set(ctx, key, data)
}

// LoadList loads a collection that is stored as a JSON array. A missing
// collection is an empty list.
func LoadList[T any](ctx context.Context, s Store, key string) ([]T, error) {
	list, err := Load(ctx, s, key, []T{})
	if err != nil {
		return nil, err
	}

	// A stored JSON null decodes to a nil slice
	if list == nil {
		list = []T{}
	}

	return list, nil
}
