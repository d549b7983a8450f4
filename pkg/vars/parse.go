package vars

import (
	"fmt"
	"io/ioutil"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// LoadTfvars reads and parses a tfvars file.
func LoadTfvars(path string) (*VarSet, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %s", err)
	}
	return ParseTfvars(data)
}

// ParseTfvars parses the HCL variable assignments of a tfvars file into a
// VarSet. Variables absent from the file keep their catalog defaults; keys
// outside the catalog are an error.
func ParseTfvars(data []byte) (*VarSet, error) {
	file, diags := hclsyntax.ParseConfig(data, "env.tfvars", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("cannot parse tfvars: %s", diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("cannot read tfvars assignments: %s", diags)
	}

	// attrs is a map, walk it in file order for stable error reporting
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return attrs[names[i]].Range.Start.Line < attrs[names[j]].Range.Start.Line
	})

	v := Default()
	for _, name := range names {
		attr := attrs[name]
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, fmt.Errorf("cannot evaluate %q: %s", name, valDiags)
		}
		if err := v.set(name, val); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func (v *VarSet) set(name string, val cty.Value) error {
	if name == "connection_exists" {
		// no string coercion, a tfvars bool is a bool
		if val.Type() != cty.Bool {
			return fmt.Errorf("variable %q must be a bool, got %s", name, val.Type().FriendlyName())
		}
		v.ConnectionExists = val.True()
		return nil
	}

	ptr, ok := v.stringFields()[name]
	if !ok {
		return fmt.Errorf("unknown variable %q", name)
	}
	if val.Type() != cty.String {
		return fmt.Errorf("variable %q must be a string, got %s", name, val.Type().FriendlyName())
	}
	*ptr = val.AsString()
	return nil
}
