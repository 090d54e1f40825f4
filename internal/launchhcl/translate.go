// Translation from HCL schema structs into the format-agnostic entity model.

package launchhcl

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/spotstack/launchgo/internal/launch"
)

func translateArgument(block *argumentBlock) *launch.DeclareArgument {
	return &launch.DeclareArgument{
		Name:        block.Name,
		Description: block.Description,
		Default:     block.Default,
	}
}

func translateInclude(block *includeBlock, baseDir string) (*launch.Include, error) {
	source := block.Source
	if !filepath.IsAbs(source) {
		source = filepath.Join(baseDir, source)
	}

	inc := &launch.Include{Source: source}
	if block.Arguments != nil {
		attrs, err := orderedAttributes(block.Arguments.Body)
		if err != nil {
			return nil, err
		}
		for _, attr := range attrs {
			sub, err := exprSubstitution(attr.Expr)
			if err != nil {
				return nil, fmt.Errorf("forwarded argument %q: %w", attr.Name, err)
			}
			inc.Arguments = append(inc.Arguments, launch.ForwardedArgument{Name: attr.Name, Value: sub})
		}
	}
	return inc, nil
}

func translateNode(block *nodeBlock) (*launch.Node, error) {
	node := &launch.Node{
		Package:    block.Package,
		Executable: block.Executable,
		Name:       block.Name,
		Output:     block.Output,
	}

	if block.ParametersFile != nil {
		// gohcl leaves optional expressions non-nil but unevaluable when the
		// attribute is absent; a null literal means "not set".
		if val, diags := block.ParametersFile.Value(nil); diags.HasErrors() || !val.IsNull() {
			sub, err := exprSubstitution(block.ParametersFile)
			if err != nil {
				return nil, fmt.Errorf("node %q parameters_file: %w", block.Name, err)
			}
			node.Parameters = append(node.Parameters, launch.ParameterFile{Path: sub})
		}
	}

	for _, params := range block.Parameters {
		attrs, err := orderedAttributes(params.Body)
		if err != nil {
			return nil, err
		}
		set := make(launch.ParameterSet, len(attrs))
		for _, attr := range attrs {
			value, err := exprValue(attr.Expr)
			if err != nil {
				return nil, fmt.Errorf("node %q parameter %q: %w", block.Name, attr.Name, err)
			}
			set[attr.Name] = value
		}
		node.Parameters = append(node.Parameters, set)
	}
	return node, nil
}

// exprSubstitution translates an expression into a substitution: arg.<name>
// references become configuration lookups, anything else must evaluate to a
// literal string.
func exprSubstitution(expr hcl.Expression) (launch.Substitution, error) {
	if name, ok := argReference(expr); ok {
		return launch.Config(name), nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("value must be a literal or an arg.<name> reference: %w", diags)
	}
	if val.IsNull() || val.Type() != cty.String {
		return nil, fmt.Errorf("value must be a string literal or an arg.<name> reference")
	}
	return launch.Text(val.AsString()), nil
}

// exprValue translates a parameter expression: arg references defer to
// resolution, literals pass through typed.
func exprValue(expr hcl.Expression) (launch.Value, error) {
	if name, ok := argReference(expr); ok {
		return launch.SubstVal(launch.Config(name)), nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return launch.Value{}, fmt.Errorf("value must be a literal or an arg.<name> reference: %w", diags)
	}
	return launch.Val(val), nil
}

// argReference recognizes a bare arg.<name> traversal.
func argReference(expr hcl.Expression) (string, bool) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() || len(traversal) != 2 {
		return "", false
	}
	root, ok := traversal[0].(hcl.TraverseRoot)
	if !ok || root.Name != "arg" {
		return "", false
	}
	attr, ok := traversal[1].(hcl.TraverseAttr)
	if !ok {
		return "", false
	}
	return attr.Name, true
}

// orderedAttributes returns a body's attributes sorted by source position,
// since forwarded arguments are an ordered sequence.
func orderedAttributes(body hcl.Body) ([]*hcl.Attribute, error) {
	attrMap, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("unexpected content: %w", diags)
	}
	attrs := make([]*hcl.Attribute, 0, len(attrMap))
	for _, attr := range attrMap {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].Range.Start.Byte < attrs[j].Range.Start.Byte
	})
	return attrs, nil
}
