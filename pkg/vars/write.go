package vars

import (
	"fmt"
	"io"
)

// WriteTfvars renders the variable set as a tfvars file in catalog order.
// The output is canonical: rendering the same set twice yields identical
// bytes, so regenerated bundles diff cleanly.
func (v *VarSet) WriteTfvars(w io.Writer) error {
	fields := v.stringFields()
	for _, decl := range Catalog() {
		var err error
		if decl.Type == "bool" {
			_, err = fmt.Fprintf(w, "%s = %t\n", decl.Name, v.ConnectionExists)
		} else {
			_, err = fmt.Fprintf(w, "%s = %q\n", decl.Name, *fields[decl.Name])
		}
		if err != nil {
			return fmt.Errorf("cannot write tfvars: %s", err)
		}
	}
	return nil
}
