package store

import (
	"fmt"
	"slices"

	jsoniter "github.com/json-iterator/go"
)

// CloneFunc returns a copy of v that shares no mutable memory with it.
type CloneFunc[T any] func(v T) (T, error)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONClone deep-copies v through a JSON round trip. Only exported fields
// survive, so state types should be plain data.
func JSONClone[T any](v T) (T, error) {
	var out T

	data, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrCloneFailed, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrCloneFailed, err)
	}
	return out, nil
}

// CloneSlice copies a slice of values that hold no pointers, maps or slices.
// A nil slice stays nil.
func CloneSlice[S ~[]E, E any](s S) (S, error) {
	return slices.Clone(s), nil
}
