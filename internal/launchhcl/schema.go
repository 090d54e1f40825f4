package launchhcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is the decode target for a complete .launch.hcl file.
type fileRoot struct {
	Arguments []*argumentBlock `hcl:"argument,block"`
	Includes  []*includeBlock  `hcl:"include,block"`
	Nodes     []*nodeBlock     `hcl:"node,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// argumentBlock declares an externally-settable launch argument.
type argumentBlock struct {
	Name        string     `hcl:"name,label"`
	Description string     `hcl:"description,optional"`
	Default     *cty.Value `hcl:"default,optional"`
}

// includeBlock delegates to another launch file, forwarding the attributes
// of its 'arguments' block in source order.
type includeBlock struct {
	Source    string          `hcl:"source"`
	Arguments *argumentsBlock `hcl:"arguments,block"`
}

// argumentsBlock holds forwarded arguments as raw attributes; values may be
// literals or arg.<name> references.
type argumentsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// nodeBlock describes one process to launch.
type nodeBlock struct {
	Name           string             `hcl:"name,label"`
	Package        string             `hcl:"package"`
	Executable     string             `hcl:"executable"`
	Output         string             `hcl:"output,optional"`
	ParametersFile hcl.Expression     `hcl:"parameters_file,optional"`
	Parameters     []*parametersBlock `hcl:"parameters,block"`
}

// parametersBlock holds an in-memory parameter set as raw attributes.
type parametersBlock struct {
	Body hcl.Body `hcl:",remain"`
}
