package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// TopLevelKey is the document key holding the option declarations.
const TopLevelKey = "compile-options"

const (
	typeList  = "list"
	typeRange = "range"
)

// declaration is the wire form of a non-unary option entry.
type declaration struct {
	Type     string       `json:"type"`
	Default  *Value       `json:"default"`
	Values   []Value      `json:"values"`
	Min      *json.Number `json:"min"`
	Max      *json.Number `json:"max"`
	Step     *json.Number `json:"step"`
	StepSize *json.Number `json:"stepsize"`
}

// Parse turns a JSON option document into a Space.
//
// A document without the "compile-options" key, including one that is not a
// JSON object, yields an empty Space. Entries
// with an unknown type or missing fields are skipped and reported in the
// returned Diagnostics; only invalid JSON is an error.
func Parse(data []byte) (*Space, Diagnostics, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return nil, nil, fmt.Errorf("decode option document: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return NewSpace(), Diagnostics{{Option: TopLevelKey, Err: fmt.Errorf("%w: document is not an object", ErrMalformedOption)}}, nil
	}

	raw, ok := doc[TopLevelKey]
	if !ok {
		return NewSpace(), nil, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return NewSpace(), Diagnostics{{Option: TopLevelKey, Err: fmt.Errorf("%w: %v", ErrMalformedOption, err)}}, nil
	}

	var (
		opts  []Option
		diags Diagnostics
	)
	for name, entry := range entries {
		opt, err := parseEntry(name, entry)
		if err != nil {
			diags = append(diags, Diagnostic{Option: name, Err: err})
			continue
		}
		opts = append(opts, opt)
	}
	sortDiagnostics(diags)
	return NewSpace(opts...), diags, nil
}

func parseEntry(name string, entry json.RawMessage) (Option, error) {
	if bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
		return NewUnary(name), nil
	}

	dec := json.NewDecoder(bytes.NewReader(entry))
	dec.UseNumber()
	var decl declaration
	if err := dec.Decode(&decl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOption, err)
	}

	switch decl.Type {
	case typeList:
		if decl.Default == nil {
			return nil, fmt.Errorf("%w: list option requires a default", ErrMalformedOption)
		}
		if len(decl.Values) == 0 {
			return nil, fmt.Errorf("%w: list option requires values", ErrMalformedOption)
		}
		return NewEnumerated(name, *decl.Default, decl.Values), nil

	case typeRange:
		if decl.Default == nil {
			return nil, fmt.Errorf("%w: range option requires a default", ErrMalformedOption)
		}
		step := decl.Step
		if step == nil {
			step = decl.StepSize
		}
		minVal, err := intField("min", decl.Min)
		if err != nil {
			return nil, err
		}
		maxVal, err := intField("max", decl.Max)
		if err != nil {
			return nil, err
		}
		stepVal, err := intField("step", step)
		if err != nil {
			return nil, err
		}
		return NewRanged(name, minVal, maxVal, stepVal, *decl.Default)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, decl.Type)
	}
}

func intField(field string, n *json.Number) (int64, error) {
	if n == nil {
		return 0, fmt.Errorf("%w: range option requires %s", ErrMalformedOption, field)
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %s", ErrMalformedOption, field, n.String())
	}
	return v, nil
}

// ParseFile reads an option spec from path. Files ending in ".hcl" are parsed
// with ParseHCL, everything else as JSON.
func ParseFile(path string) (*Space, Diagnostics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read option spec: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return ParseHCL(data, path)
	}
	return Parse(data)
}

func sortDiagnostics(diags Diagnostics) {
	slices.SortFunc(diags, func(a, b Diagnostic) int {
		return strings.Compare(a.Option, b.Option)
	})
}
