// Package optional distinguishes a JSON field that was omitted from one that
// was sent, including one sent as null.
package optional

import "encoding/json"

// Value holds a decoded JSON field. Set reports whether the key appeared in
// the payload at all; Null reports whether it appeared as a literal null.
type Value[T any] struct {
	V    T
	Set  bool
	Null bool
}

// Of returns a Value that is set to v.
func Of[T any](v T) Value[T] {
	return Value[T]{V: v, Set: true}
}

// UnmarshalJSON is only invoked for keys present in the payload.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.V = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.V)
}

// MarshalJSON writes null for unset or null values.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}

// ApplyPtr overwrites *dst when the field was present: a null clears it, a
// value replaces it. Absent fields leave *dst untouched.
func ApplyPtr[T any](o Value[T], dst **T) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = nil
		return
	}
	v := o.V
	*dst = &v
}

// Apply is ApplyPtr for non-pointer destinations; a null resets *dst to the
// zero value.
func Apply[T any](o Value[T], dst *T) {
	if !o.Set {
		return
	}
	*dst = o.V
}
