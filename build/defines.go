package build

import (
	"strings"

	"github.com/utkarsh5026/optbench/options"
)

// Defines renders cfg as preprocessor flags, one per option in ascending
// name order: -DNAME for present options and -DNAME=value otherwise.
func Defines(cfg options.Configuration) []string {
	keys := cfg.Keys()
	flags := make([]string, 0, len(keys))
	for _, name := range keys {
		flag := "-D" + name
		if v, ok := cfg[name].Value(); ok {
			flag += "=" + v.String()
		}
		flags = append(flags, flag)
	}
	return flags
}

// ParamString joins Defines(cfg) with single spaces.
func ParamString(cfg options.Configuration) string {
	return strings.Join(Defines(cfg), " ")
}
