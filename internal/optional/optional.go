// Package optional distinguishes "field absent" from "field present" in
// decoded JSON request bodies.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds a T that may or may not have been supplied. The zero Value is
// absent. Decoding any JSON value, including null, marks it present.
type Value[T any] struct {
	val T
	set bool
}

func Some[T any](v T) Value[T] {
	return Value[T]{val: v, set: true}
}

func None[T any]() Value[T] {
	return Value[T]{}
}

func (v Value[T]) IsSet() bool {
	return v.set
}

// Get returns the value and whether it was supplied.
func (v Value[T]) Get() (T, bool) {
	return v.val, v.set
}

// OrElse returns the value when supplied, otherwise fallback.
func (v Value[T]) OrElse(fallback T) T {
	if v.set {
		return v.val
	}
	return fallback
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		v.val = zero
		return nil
	}
	return json.Unmarshal(data, &v.val)
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.val)
}
