package options

import (
	"errors"
	"slices"
	"sort"
)

var (
	// ErrMalformedOption is reported for option declarations that cannot be
	// turned into an Option.
	ErrMalformedOption = errors.New("malformed option")

	// ErrUnsupportedType is reported for declarations with an unknown type
	// discriminator.
	ErrUnsupportedType = errors.New("unsupported option type")
)

// Space is the immutable set of options a build can vary.
type Space struct {
	byName map[string]Option
	names  []string
}

// NewSpace builds a Space from opts. When two options share a name the last
// one wins.
func NewSpace(opts ...Option) *Space {
	s := &Space{byName: make(map[string]Option, len(opts))}
	for _, opt := range opts {
		s.byName[opt.Name()] = opt
	}
	s.names = make([]string, 0, len(s.byName))
	for name := range s.byName {
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s
}

// Len returns the number of options.
func (s *Space) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the option names in ascending order.
func (s *Space) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.names)
}

// Lookup returns the option registered under name.
func (s *Space) Lookup(name string) (Option, bool) {
	if s == nil {
		return nil, false
	}
	opt, ok := s.byName[name]
	return opt, ok
}

// Options returns all options ordered by name.
func (s *Space) Options() []Option {
	if s == nil {
		return nil
	}
	out := make([]Option, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.byName[name])
	}
	return out
}

// Diagnostic describes an option declaration that was skipped.
type Diagnostic struct {
	Option string
	Err    error
}

func (d Diagnostic) Error() string {
	return d.Option + ": " + d.Err.Error()
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics is the list of entries dropped while parsing a spec.
type Diagnostics []Diagnostic

// HasWarnings reports whether any entry was dropped.
func (d Diagnostics) HasWarnings() bool {
	return len(d) > 0
}
