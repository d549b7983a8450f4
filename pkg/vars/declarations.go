package vars

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/terraform-config-inspect/tfconfig"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

var (
	rootSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{
				Type:       "variable",
				LabelNames: []string{"name"},
			},
		},
	}

	variableSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{
				Name: "type",
			},
			{
				Name: "description",
			},
			{
				Name: "default",
			},
			{
				Name: "sensitive",
			},
		},
	}
)

// ParseDeclarations parses the `variable` blocks of a variables.tf into
// tfconfig.Variable values, so an infra checkout can be compared against the
// built-in catalog.
func ParseDeclarations(data []byte) ([]*tfconfig.Variable, error) {
	file, diags := hclsyntax.ParseConfig(data, "variables.tf", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("cannot parse config: %s", diags)
	}

	bodyCont, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("cannot get body content: %s", diags)
	}

	var declared []*tfconfig.Variable
	for _, block := range bodyCont.Blocks {
		content, _, _ := block.Body.PartialContent(variableSchema)

		v := &tfconfig.Variable{
			Name: block.Labels[0],
			Pos: tfconfig.SourcePos{
				Filename: block.DefRange.Filename,
				Line:     block.DefRange.Start.Line,
			},
		}

		if attr, defined := content.Attributes["type"]; defined {
			// The type may be a bare type expression or, in older
			// configurations, a quoted keyword. Keep the raw source when it
			// isn't a plain string.
			var typeExpr string
			valDiags := gohcl.DecodeExpression(attr.Expr, nil, &typeExpr)
			if valDiags.HasErrors() {
				rng := attr.Expr.Range()
				typeExpr = string(rng.SliceBytes(file.Bytes))
			}
			v.Type = typeExpr
		}

		if attr, defined := content.Attributes["description"]; defined {
			var description string
			if valDiags := gohcl.DecodeExpression(attr.Expr, nil, &description); !valDiags.HasErrors() {
				v.Description = description
			}
		}

		if attr, defined := content.Attributes["default"]; defined {
			val, valDiags := attr.Expr.Value(nil)
			if valDiags.HasErrors() {
				return nil, fmt.Errorf("cannot evaluate default of %q: %s", v.Name, valDiags)
			}
			if val.IsWhollyKnown() {
				valJSON, err := ctyjson.Marshal(val, val.Type())
				if err != nil {
					return nil, fmt.Errorf("cannot serialize default value: %s", err)
				}
				var def interface{}
				if err := json.Unmarshal(valJSON, &def); err != nil {
					return nil, fmt.Errorf("cannot re-parse default value: %s", err)
				}
				v.Default = def
			}
		} else {
			v.Required = true
		}

		if attr, defined := content.Attributes["sensitive"]; defined {
			var sensitive bool
			if valDiags := gohcl.DecodeExpression(attr.Expr, nil, &sensitive); !valDiags.HasErrors() {
				v.Sensitive = sensitive
			}
		}

		declared = append(declared, v)
	}
	return declared, nil
}

// Drift compares declarations parsed from a variables.tf against the built-in
// catalog and reports the differences: variables the checkout declares but
// the catalog doesn't know, catalog variables the checkout dropped, and type
// mismatches. An empty result means the two are in sync.
func Drift(declared []*tfconfig.Variable) []string {
	var findings []string

	declaredByName := map[string]*tfconfig.Variable{}
	for _, d := range declared {
		declaredByName[d.Name] = d
	}

	for _, decl := range Catalog() {
		found, ok := declaredByName[decl.Name]
		if !ok {
			findings = append(findings, fmt.Sprintf("variable %q is not declared in the variables file", decl.Name))
			continue
		}
		if found.Type != "" && found.Type != decl.Type {
			findings = append(findings, fmt.Sprintf("variable %q is declared as %s, expected %s", decl.Name, found.Type, decl.Type))
		}
	}

	for _, d := range declared {
		if !Declared(d.Name) {
			findings = append(findings, fmt.Sprintf("variable %q is declared but unknown to this version", d.Name))
		}
	}

	return findings
}
