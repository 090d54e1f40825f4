package launch

import (
	"github.com/zclconf/go-cty/cty"
)

// Entity is the polymorphic union of everything a launch description may
// contain: an argument declaration, an inclusion of another description, or
// a process launch record.
type Entity interface {
	launchEntity()
}

// Description is an ordered sequence of launch entities. Order is preserved
// through resolution; no entity depends on another having been processed,
// with the exception of argument declarations, which the resolver collects
// up front regardless of position.
type Description []Entity

// DeclareArgument declares an externally-settable input. An argument with a
// nil Default is required: resolution fails with MissingArgumentError unless
// the caller supplies a value.
type DeclareArgument struct {
	Name        string
	Description string
	Default     *cty.Value
}

func (*DeclareArgument) launchEntity() {}

// ForwardedArgument is a single (name, value) pair forwarded to an included
// description. The value is a substitution resolved in the including
// description's context.
type ForwardedArgument struct {
	Name  string
	Value Substitution
}

// Include delegates to another launch description on disk, forwarding the
// listed arguments in order.
type Include struct {
	Source    string
	Arguments []ForwardedArgument
}

func (*Include) launchEntity() {}

// Node describes one process to start. It has no runtime behavior itself;
// the supervisor consuming the resolved plan owns the process lifecycle.
type Node struct {
	Package    string
	Executable string
	Name       string
	Output     string
	Parameters []ParameterSource
}

func (*Node) launchEntity() {}

// ParameterSource is one parameter entry of a node: either a parameters file
// on disk or an in-memory set of named values.
type ParameterSource interface {
	parameterSource()
}

// ParameterFile points at a parameters file. The resolved path is handed to
// the process verbatim.
type ParameterFile struct {
	Path Substitution
}

func (ParameterFile) parameterSource() {}

// ParameterSet is an in-memory mapping from parameter name to value.
type ParameterSet map[string]Value

func (ParameterSet) parameterSource() {}

// Value is a parameter value: either a literal or a deferred substitution
// that resolves against the launch arguments.
type Value struct {
	literal cty.Value
	sub     Substitution
}

// Val wraps a literal cty value.
func Val(v cty.Value) Value {
	return Value{literal: v}
}

// StringVal wraps a literal string.
func StringVal(s string) Value {
	return Value{literal: cty.StringVal(s)}
}

// SubstVal wraps a substitution; it resolves to a string value.
func SubstVal(s Substitution) Value {
	return Value{sub: s}
}

// Resolve produces the concrete value for this entry.
func (v Value) Resolve(args *Arguments) (cty.Value, error) {
	if v.sub != nil {
		s, err := v.sub.Resolve(args)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(s), nil
	}
	return v.literal, nil
}
