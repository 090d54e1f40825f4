// Package launchhcl loads launch descriptions from .launch.hcl files. It is
// the on-disk format front-end: argument, include, and node blocks are
// translated into the format-agnostic entity model of the launch package.
package launchhcl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/spotstack/launchgo/internal/ctxlog"
	"github.com/spotstack/launchgo/internal/launch"
)

// Extension is the suffix launch description files carry.
const Extension = ".launch.hcl"

// Loader parses .launch.hcl files into launch descriptions.
type Loader struct{}

// NewLoader creates an HCL launch file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads one launch file. Declared arguments come first in the
// returned description, then includes, then nodes; within a kind, file order
// is preserved. The resolver collects declarations up front, so this
// grouping does not change resolution semantics.
func (l *Loader) LoadFile(ctx context.Context, path string) (launch.Description, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading launch file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse launch file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode launch file %s: %w", path, diags)
	}

	var desc launch.Description
	for _, block := range root.Arguments {
		desc = append(desc, translateArgument(block))
	}
	for _, block := range root.Includes {
		inc, err := translateInclude(block, filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("in launch file %s: %w", path, err)
		}
		desc = append(desc, inc)
	}
	for _, block := range root.Nodes {
		node, err := translateNode(block)
		if err != nil {
			return nil, fmt.Errorf("in launch file %s: %w", path, err)
		}
		desc = append(desc, node)
	}

	logger.Debug("Launch file loaded.", "path", path, "entities", len(desc))
	return desc, nil
}

// IncludeLoader adapts the loader for use by the resolver when it follows
// include entities.
func (l *Loader) IncludeLoader() launch.IncludeLoader {
	return func(ctx context.Context, source string) (launch.Description, error) {
		if !strings.HasSuffix(source, ".hcl") {
			return nil, fmt.Errorf("unsupported launch file format: %s", source)
		}
		return l.LoadFile(ctx, source)
	}
}
