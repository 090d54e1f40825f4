package launch

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/spotstack/launchgo/internal/ctxlog"
)

// IncludeLoader loads the description behind an Include source path. The
// resolver is agnostic to the on-disk format; the app wires in the HCL
// front-end here.
type IncludeLoader func(ctx context.Context, source string) (Description, error)

// Plan is the fully resolved form of a description: every argument has a
// concrete value and every process record has concrete parameters. Slices
// preserve entity order.
type Plan struct {
	Arguments map[string]string
	Includes  []*ResolvedInclude
	Processes []*Process
}

// ResolvedInclude records a resolved delegation to another description.
type ResolvedInclude struct {
	Source    string
	Arguments []ResolvedArgument
	Plan      *Plan
}

// ResolvedArgument is one forwarded (name, value) pair after resolution.
type ResolvedArgument struct {
	Name  string
	Value string
}

// Process is a resolved process launch record, ready for a supervisor.
type Process struct {
	Package    string
	Executable string
	Name       string
	Output     string
	Parameters []ResolvedParameter
}

// ResolvedParameter carries either a parameters file path or a set of
// concrete values. Exactly one of the two fields is populated.
type ResolvedParameter struct {
	File   string
	Values map[string]cty.Value
}

// AllProcesses returns the plan's processes followed by those of its
// includes, depth-first, preserving order.
func (p *Plan) AllProcesses() []*Process {
	out := make([]*Process, 0, len(p.Processes))
	out = append(out, p.Processes...)
	for _, inc := range p.Includes {
		out = append(out, inc.Plan.AllProcesses()...)
	}
	return out
}

// Resolve turns a description into a plan. It first collects every argument
// declaration, failing with MissingArgumentError if a required argument has
// no override, and only then resolves the remaining entities in order. Any
// error aborts the whole resolution; a partial plan is never returned.
func Resolve(ctx context.Context, desc Description, overrides map[string]string, load IncludeLoader) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	args := NewArguments(overrides)
	for _, entity := range desc {
		decl, ok := entity.(*DeclareArgument)
		if !ok {
			continue
		}
		if _, supplied := args.Get(decl.Name); supplied {
			continue
		}
		if decl.Default == nil {
			return nil, &MissingArgumentError{Name: decl.Name}
		}
		def, err := argumentString(*decl.Default)
		if err != nil {
			return nil, fmt.Errorf("default for launch argument %q: %w", decl.Name, err)
		}
		args.set(decl.Name, def)
	}
	logger.Debug("Launch arguments resolved.", "count", len(args.values))

	plan := &Plan{Arguments: args.Map()}
	for _, entity := range desc {
		switch e := entity.(type) {
		case *DeclareArgument:
			// Handled in the declaration pass.
		case *Include:
			resolved, err := resolveInclude(ctx, e, args, load)
			if err != nil {
				return nil, err
			}
			plan.Includes = append(plan.Includes, resolved)
		case *Node:
			process, err := resolveNode(e, args)
			if err != nil {
				return nil, err
			}
			plan.Processes = append(plan.Processes, process)
		default:
			return nil, fmt.Errorf("unknown launch entity type %T", entity)
		}
	}

	logger.Debug("Description resolved.", "processes", len(plan.Processes), "includes", len(plan.Includes))
	return plan, nil
}

func resolveInclude(ctx context.Context, inc *Include, args *Arguments, load IncludeLoader) (*ResolvedInclude, error) {
	forwarded := make([]ResolvedArgument, 0, len(inc.Arguments))
	childOverrides := make(map[string]string, len(inc.Arguments))
	for _, fa := range inc.Arguments {
		value, err := fa.Value.Resolve(args)
		if err != nil {
			return nil, fmt.Errorf("resolving argument %q forwarded to %s: %w", fa.Name, inc.Source, err)
		}
		forwarded = append(forwarded, ResolvedArgument{Name: fa.Name, Value: value})
		childOverrides[fa.Name] = value
	}

	if load == nil {
		return nil, fmt.Errorf("description includes %s but no include loader is configured", inc.Source)
	}
	child, err := load(ctx, inc.Source)
	if err != nil {
		return nil, fmt.Errorf("loading included description %s: %w", inc.Source, err)
	}
	childPlan, err := Resolve(ctx, child, childOverrides, load)
	if err != nil {
		return nil, fmt.Errorf("resolving included description %s: %w", inc.Source, err)
	}

	return &ResolvedInclude{Source: inc.Source, Arguments: forwarded, Plan: childPlan}, nil
}

func resolveNode(node *Node, args *Arguments) (*Process, error) {
	process := &Process{
		Package:    node.Package,
		Executable: node.Executable,
		Name:       node.Name,
		Output:     node.Output,
	}
	for _, source := range node.Parameters {
		switch p := source.(type) {
		case ParameterFile:
			path, err := p.Path.Resolve(args)
			if err != nil {
				return nil, fmt.Errorf("node %s/%s parameters file: %w", node.Package, node.Executable, err)
			}
			process.Parameters = append(process.Parameters, ResolvedParameter{File: path})
		case ParameterSet:
			values := make(map[string]cty.Value, len(p))
			for name, value := range p {
				v, err := value.Resolve(args)
				if err != nil {
					return nil, fmt.Errorf("node %s/%s parameter %q: %w", node.Package, node.Executable, name, err)
				}
				values[name] = v
			}
			process.Parameters = append(process.Parameters, ResolvedParameter{Values: values})
		default:
			return nil, fmt.Errorf("unknown parameter source type %T", source)
		}
	}
	return process, nil
}

// argumentString renders a declaration default as the string form used for
// argument values. Launch arguments are strings on the wire; bools and
// numbers convert to their canonical string spelling.
func argumentString(v cty.Value) (string, error) {
	converted, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	if converted.IsNull() {
		return "", fmt.Errorf("null value cannot be used as an argument")
	}
	return converted.AsString(), nil
}
