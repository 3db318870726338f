// Package optional provides a JSON field wrapper that distinguishes a field
// absent from the payload, a field present as null, and a field with a value.
// encoding/json only invokes UnmarshalJSON for keys that appear in the
// payload, so the zero Value means "absent".
package optional

import (
	"bytes"
	"encoding/json"
)

type Value[T any] struct {
	V     T
	Set   bool // key was present in the payload
	Valid bool // value was non-null
}

// Of wraps a concrete value, as if it had been decoded from the payload.
func Of[T any](v T) Value[T] {
	return Value[T]{V: v, Set: true, Valid: true}
}

// Null is a present-but-null value.
func Null[T any]() Value[T] {
	return Value[T]{Set: true}
}

func (o *Value[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(b, &o.V); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}
