package options

import (
	"bytes"
	"maps"
	"slices"
)

// Setting is the state of one option inside a Configuration.
// The zero Setting means the option is present without a value.
type Setting struct {
	value  Value
	valued bool
}

// Present returns the setting for an applied unary option.
func Present() Setting {
	return Setting{}
}

// Set returns a setting carrying v.
func Set(v Value) Setting {
	return Setting{value: v, valued: true}
}

// Value returns the carried value. ok is false for presence-only settings.
func (s Setting) Value() (v Value, ok bool) {
	return s.value, s.valued
}

// MarshalJSON writes null for presence-only settings.
func (s Setting) MarshalJSON() ([]byte, error) {
	if !s.valued {
		return []byte("null"), nil
	}
	return s.value.MarshalJSON()
}

// UnmarshalJSON reads null as presence and anything else as a Value.
func (s *Setting) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Present()
		return nil
	}
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = Set(v)
	return nil
}

// Configuration assigns settings to a subset of options. Options missing from
// the map are not applied at build time.
type Configuration map[string]Setting

// Keys returns the option names in ascending order.
func (c Configuration) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Equal reports whether both configurations hold the same settings.
func (c Configuration) Equal(other Configuration) bool {
	return maps.Equal(c, other)
}

// Clone returns an independent copy.
func (c Configuration) Clone() Configuration {
	return maps.Clone(c)
}
