package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// Value is a concrete setting for an Enumerated or Ranged option.
//
// It keeps the literal text the value was declared with, so numbers, strings
// and booleans survive a JSON round trip unchanged. Two values are equal when
// their literal text and quoting match, which makes Value usable with == and
// as a map key. Use Equal to compare numbers by magnitude.
type Value struct {
	text   string
	quoted bool
}

// Int returns a numeric value.
func Int(n int64) Value {
	return Value{text: strconv.FormatInt(n, 10)}
}

// String returns a string value. It is quoted when written as JSON.
func String(s string) Value {
	return Value{text: s, quoted: true}
}

// Literal returns an unquoted value from its JSON literal text, such as a
// number ("4", "0.5") or a boolean ("true").
func Literal(text string) Value {
	return Value{text: text}
}

// String returns the text used on a compiler command line.
func (v Value) String() string {
	return v.text
}

// Equal reports whether v and o denote the same setting. Unquoted numbers
// compare numerically, so "1.0" equals "1"; everything else compares by
// literal text.
func (v Value) Equal(o Value) bool {
	if v == o {
		return true
	}
	if v.quoted || o.quoted {
		return false
	}
	a, ok := new(big.Rat).SetString(v.text)
	if !ok {
		return false
	}
	b, ok := new(big.Rat).SetString(o.text)
	if !ok {
		return false
	}
	return a.Cmp(b) == 0
}

// IsString reports whether the value was declared as a JSON string.
func (v Value) IsString() bool {
	return v.quoted
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.quoted {
		return json.Marshal(v.text)
	}
	if v.text == "" {
		return nil, fmt.Errorf("options: empty literal value")
	}
	return []byte(v.text), nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts strings, numbers and
// booleans; objects, arrays and null are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("options: empty value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Literal(strconv.FormatBool(b))
		return nil
	case 'n', '{', '[':
		return fmt.Errorf("options: unsupported value %s", data)
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("options: invalid value %s: %w", data, err)
	}
	*v = Literal(n.String())
	return nil
}
