package app

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/spotstack/launchgo/internal/launch"
)

// renderValue keeps dry-run output readable: long strings (the expanded
// robot description) are summarized by size.
func renderValue(v cty.Value) string {
	if v.Type() == cty.String && !v.IsNull() {
		s := v.AsString()
		if len(s) > 64 {
			return fmt.Sprintf("<%d bytes>", len(s))
		}
		return fmt.Sprintf("%q", s)
	}
	return v.GoString()
}

// renderPlan prints a resolved plan in a human-readable form for dry runs.
func (a *App) renderPlan(plan *launch.Plan) {
	a.renderPlanIndented(plan, "")
}

func (a *App) renderPlanIndented(plan *launch.Plan, indent string) {
	names := make([]string, 0, len(plan.Arguments))
	for name := range plan.Arguments {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(a.outW, "%sarguments:\n", indent)
	for _, name := range names {
		fmt.Fprintf(a.outW, "%s  %s = %q\n", indent, name, plan.Arguments[name])
	}

	for _, process := range plan.Processes {
		fmt.Fprintf(a.outW, "%sprocess: %s/%s", indent, process.Package, process.Executable)
		if process.Name != "" {
			fmt.Fprintf(a.outW, " (node %s)", process.Name)
		}
		fmt.Fprintln(a.outW)
		for _, parameter := range process.Parameters {
			if parameter.File != "" {
				fmt.Fprintf(a.outW, "%s  params-file: %s\n", indent, parameter.File)
				continue
			}
			keys := make([]string, 0, len(parameter.Values))
			for key := range parameter.Values {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(a.outW, "%s  param %s = %s\n", indent, key, renderValue(parameter.Values[key]))
			}
		}
	}

	for _, include := range plan.Includes {
		fmt.Fprintf(a.outW, "%sinclude: %s\n", indent, include.Source)
		for _, arg := range include.Arguments {
			fmt.Fprintf(a.outW, "%s  %s = %q\n", indent, arg.Name, arg.Value)
		}
		a.renderPlanIndented(include.Plan, indent+"    ")
	}
}
