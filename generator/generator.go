// Package generator produces concrete configurations from an option space.
//
// Two strategies are provided. BoundaryProbe isolates each option at a
// non-default value so that every option is exercised on its own at least
// once. Random samples the whole space so that interactions between options
// are explored. Both are stateless apart from the random source.
package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/utkarsh5026/optbench/options"
)

var (
	// ErrUnknownOption is returned when a caller asks for an option that is
	// not part of the space.
	ErrUnknownOption = errors.New("unknown option")

	// ErrNoLegalValues is returned when an option declares no values to
	// choose from.
	ErrNoLegalValues = errors.New("option has no legal values")
)

// Generator draws configurations using its random source.
// A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator backed by src.
func New(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewSeeded returns a Generator with a deterministic PCG source. A zero seed
// picks one from the clock.
func NewSeeded(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Probe is a boundary-probe configuration together with the option it isolates.
type Probe struct {
	Option string
	Config options.Configuration
}

// NonDefault returns a configuration whose only entry is the named option set
// to a legal value other than its default.
//
// Unary options are simply switched on. For the other kinds the value is drawn
// uniformly from the legal values minus the default; when the default is the
// only legal value it is used anyway.
func (g *Generator) NonDefault(space *options.Space, name string) (options.Configuration, error) {
	opt, ok := space.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not in the parsed option space", ErrUnknownOption, name)
	}

	if opt.Kind() == options.KindUnary {
		return options.Configuration{name: options.Present()}, nil
	}

	legal := opt.LegalValues()
	if len(legal) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoLegalValues, name)
	}

	candidates := legal
	if def, ok := opt.Default(); ok {
		candidates = without(legal, def)
		if len(candidates) == 0 {
			candidates = legal
		}
	}

	return options.Configuration{name: options.Set(g.pick(candidates))}, nil
}

// BoundaryProbe returns one configuration per option in the space, ordered by
// option name.
func (g *Generator) BoundaryProbe(space *options.Space) ([]Probe, error) {
	names := space.Names()
	probes := make([]Probe, 0, len(names))
	for _, name := range names {
		cfg, err := g.NonDefault(space, name)
		if err != nil {
			return probes, err
		}
		probes = append(probes, Probe{Option: name, Config: cfg})
	}
	return probes, nil
}

// Random returns a configuration covering the whole space. Unary options are
// switched on with probability 0.5; every other option gets a value drawn
// uniformly from all of its legal values, the default included.
func (g *Generator) Random(space *options.Space) (options.Configuration, error) {
	cfg := make(options.Configuration, space.Len())
	for _, opt := range space.Options() {
		if opt.Kind() == options.KindUnary {
			if g.rng.IntN(2) == 1 {
				cfg[opt.Name()] = options.Present()
			}
			continue
		}

		legal := opt.LegalValues()
		if len(legal) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoLegalValues, opt.Name())
		}
		cfg[opt.Name()] = options.Set(g.pick(legal))
	}
	return cfg, nil
}

// RandomSet returns n independent random configurations.
func (g *Generator) RandomSet(space *options.Space, n int) ([]options.Configuration, error) {
	out := make([]options.Configuration, 0, max(n, 0))
	for range n {
		cfg, err := g.Random(space)
		if err != nil {
			return out, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

func (g *Generator) pick(values []options.Value) options.Value {
	return values[g.rng.IntN(len(values))]
}

func without(values []options.Value, drop options.Value) []options.Value {
	out := make([]options.Value, 0, len(values))
	for _, v := range values {
		if !v.Equal(drop) {
			out = append(out, v)
		}
	}
	return out
}
