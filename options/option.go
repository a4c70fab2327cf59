package options

import "fmt"

// Kind identifies which variant an Option is.
type Kind int

const (
	KindUnary Kind = iota
	KindEnumerated
	KindRanged
)

func (k Kind) String() string {
	switch k {
	case KindUnary:
		return "unary"
	case KindEnumerated:
		return "list"
	case KindRanged:
		return "range"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Option is one independently variable build switch.
//
// The set of implementations is closed: Unary, Enumerated and Ranged. Each
// carries only the fields its kind needs.
type Option interface {
	// Name returns the option's identifier, e.g. "SQLITE_TEMP_STORE".
	Name() string

	// Kind returns the variant of the option.
	Kind() Kind

	// LegalValues returns every value the option may take.
	// Unary options have no values and return nil.
	LegalValues() []Value

	// Default returns the designated default value.
	// The boolean is false for Unary options.
	Default() (Value, bool)

	sealed()
}

// Unary is an option that only takes effect through its presence.
type Unary struct {
	name string
}

// NewUnary returns a presence-only option.
func NewUnary(name string) Unary {
	return Unary{name: name}
}

func (u Unary) Name() string           { return u.name }
func (u Unary) Kind() Kind             { return KindUnary }
func (u Unary) LegalValues() []Value   { return nil }
func (u Unary) Default() (Value, bool) { return Value{}, false }
func (Unary) sealed()                  {}

// Enumerated is an option with a finite ordered list of allowed values.
type Enumerated struct {
	name   string
	values []Value
	def    Value
}

// NewEnumerated returns an option restricted to values. The default is not
// required to appear in values.
func NewEnumerated(name string, def Value, values []Value) Enumerated {
	return Enumerated{
		name:   name,
		values: append([]Value(nil), values...),
		def:    def,
	}
}

func (e Enumerated) Name() string { return e.name }
func (e Enumerated) Kind() Kind   { return KindEnumerated }

func (e Enumerated) LegalValues() []Value {
	return append([]Value(nil), e.values...)
}

func (e Enumerated) Default() (Value, bool) { return e.def, true }
func (Enumerated) sealed()                  {}

// Ranged is an integer option stepping from Min to Max inclusive.
type Ranged struct {
	name     string
	min, max int64
	step     int64
	def      Value
}

// NewRanged returns a ranged option. It fails when step is not positive or
// min is greater than max.
func NewRanged(name string, minVal, maxVal, step int64, def Value) (Ranged, error) {
	if step <= 0 {
		return Ranged{}, fmt.Errorf("%w: step must be positive, got %d", ErrMalformedOption, step)
	}
	if minVal > maxVal {
		return Ranged{}, fmt.Errorf("%w: min %d is greater than max %d", ErrMalformedOption, minVal, maxVal)
	}
	return Ranged{name: name, min: minVal, max: maxVal, step: step, def: def}, nil
}

func (r Ranged) Name() string { return r.name }
func (r Ranged) Kind() Kind   { return KindRanged }
func (r Ranged) Min() int64   { return r.min }
func (r Ranged) Max() int64   { return r.max }
func (r Ranged) Step() int64  { return r.step }

// LegalValues returns min, min+step, ... up to and including max when max
// lands on a step boundary.
func (r Ranged) LegalValues() []Value {
	if r.step <= 0 || r.min > r.max {
		return nil
	}
	values := make([]Value, 0, (r.max-r.min)/r.step+1)
	for v := r.min; v <= r.max; v += r.step {
		values = append(values, Int(v))
		if v > r.max-r.step {
			// next step would pass max or overflow
			break
		}
	}
	return values
}

func (r Ranged) Default() (Value, bool) { return r.def, true }
func (Ranged) sealed()                  {}
