package transport

import "encoding/json"

// Optional is a tri-state JSON field: absent, explicit null, or a value.
// Partial updates need the distinction because "clear this field" and "leave
// unchanged" are different operations for a path's role.
type Optional[T any] struct {
	// Set reports whether the field appeared in the request body at all.
	Set bool
	// Valid reports whether the field held a non-null value.
	Valid bool
	// Value is the decoded value when Valid.
	Value T
}

// UnmarshalJSON records presence and null-ness alongside the value.
// encoding/json only calls this for fields present in the input, so an
// absent field keeps Set == false.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}

	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON round-trips the tri-state as value-or-null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns the value as a pointer, nil when absent or explicitly null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
