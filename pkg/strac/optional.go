package strac

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Optional is a numeric input that may be left unset. A set zero is a real
// value and is never confused with a missing one.
type Optional struct {
	Value float64
	Set   bool
}

// Some returns an Optional holding v.
func Some(v float64) Optional {
	return Optional{Value: v, Set: true}
}

// None returns an unset Optional.
func None() Optional {
	return Optional{}
}

// FromPtr converts a nullable float into an Optional.
func FromPtr(v *float64) Optional {
	if v == nil {
		return None()
	}
	return Some(*v)
}

// Ptr returns nil for an unset Optional.
func (o Optional) Ptr() *float64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// Or returns the value when set, otherwise fallback.
func (o Optional) Or(fallback float64) float64 {
	if o.Set {
		return o.Value
	}
	return fallback
}

func (o Optional) String() string {
	if !o.Set {
		return "unset"
	}
	return strconv.FormatFloat(o.Value, 'f', -1, 64)
}

// MarshalJSON encodes an unset Optional as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON treats null as unset.
func (o *Optional) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
