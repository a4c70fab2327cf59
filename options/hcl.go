package options

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclDocument is the root of an HCL option spec:
//
//	option "SQLITE_OMIT_WAL" {}
//
//	option "SQLITE_TEMP_STORE" {
//	  type    = "list"
//	  default = 1
//	  values  = [0, 1, 2, 3]
//	}
//
//	option "SQLITE_DEFAULT_PAGE_SIZE" {
//	  type    = "range"
//	  min     = 512
//	  max     = 4096
//	  step    = 512
//	  default = 1024
//	}
type hclDocument struct {
	Options []*hclOption `hcl:"option,block"`
}

type hclOption struct {
	Name    string    `hcl:"name,label"`
	Type    *string   `hcl:"type,optional"`
	Default cty.Value `hcl:"default,optional"`
	Values  cty.Value `hcl:"values,optional"`
	Min     cty.Value `hcl:"min,optional"`
	Max     cty.Value `hcl:"max,optional"`
	Step    cty.Value `hcl:"step,optional"`
}

// ParseHCL turns an HCL option document into a Space, following the same
// skip-and-report policy as Parse. Syntax errors are returned as errors.
func ParseHCL(src []byte, filename string) (*Space, Diagnostics, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	var (
		opts  []Option
		warns Diagnostics
	)
	for _, block := range doc.Options {
		opt, err := block.toOption()
		if err != nil {
			warns = append(warns, Diagnostic{Option: block.Name, Err: err})
			continue
		}
		opts = append(opts, opt)
	}
	sortDiagnostics(warns)
	return NewSpace(opts...), warns, nil
}

func (o *hclOption) toOption() (Option, error) {
	if o.Type == nil {
		if !o.Default.IsNull() || !o.Values.IsNull() || !o.Min.IsNull() || !o.Max.IsNull() || !o.Step.IsNull() {
			return nil, fmt.Errorf("%w: attributes given without a type", ErrMalformedOption)
		}
		return NewUnary(o.Name), nil
	}

	switch *o.Type {
	case typeList:
		def, err := ctyValue(o.Default)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		values, err := ctyValues(o.Values)
		if err != nil {
			return nil, fmt.Errorf("values: %w", err)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: list option requires values", ErrMalformedOption)
		}
		return NewEnumerated(o.Name, def, values), nil

	case typeRange:
		def, err := ctyValue(o.Default)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		minVal, err := ctyInt("min", o.Min)
		if err != nil {
			return nil, err
		}
		maxVal, err := ctyInt("max", o.Max)
		if err != nil {
			return nil, err
		}
		step, err := ctyInt("step", o.Step)
		if err != nil {
			return nil, err
		}
		return NewRanged(o.Name, minVal, maxVal, step, def)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, *o.Type)
	}
}

func ctyValue(v cty.Value) (Value, error) {
	if v.IsNull() {
		return Value{}, fmt.Errorf("%w: value is required", ErrMalformedOption)
	}
	if !v.IsWhollyKnown() {
		return Value{}, fmt.Errorf("%w: value is not known", ErrMalformedOption)
	}

	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return String(v.AsString()), nil
	case ty.Equals(cty.Number):
		return Literal(v.AsBigFloat().Text('f', -1)), nil
	case ty.Equals(cty.Bool):
		return Literal(strconv.FormatBool(v.True())), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported value type %s", ErrMalformedOption, ty.FriendlyName())
	}
}

func ctyValues(v cty.Value) ([]Value, error) {
	if v.IsNull() {
		return nil, fmt.Errorf("%w: list option requires values", ErrMalformedOption)
	}
	ty := v.Type()
	if !ty.IsTupleType() && !ty.IsListType() && !ty.IsSetType() {
		return nil, fmt.Errorf("%w: values must be a list, got %s", ErrMalformedOption, ty.FriendlyName())
	}

	values := make([]Value, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		val, err := ctyValue(elem)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

func ctyInt(field string, v cty.Value) (int64, error) {
	if v.IsNull() {
		return 0, fmt.Errorf("%w: range option requires %s", ErrMalformedOption, field)
	}
	if !v.Type().Equals(cty.Number) || !v.IsKnown() {
		return 0, fmt.Errorf("%w: %s must be a number", ErrMalformedOption, field)
	}
	n, acc := v.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrMalformedOption, field)
	}
	return n, nil
}
