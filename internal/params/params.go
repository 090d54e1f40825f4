// Package params reads and writes node parameter files in the conventional
// YAML layout: a map from node name (or the /** wildcard) to a
// ros__parameters mapping. The driver's own parameters stay opaque; only the
// file shape is validated.
package params

import (
	"fmt"
	"math/big"
	"os"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// File is a parsed parameters file.
type File struct {
	Nodes map[string]NodeParams `yaml:",inline"`
}

// NodeParams is the parameter mapping for one node entry.
type NodeParams struct {
	Parameters map[string]any `yaml:"ros__parameters"`
}

// Load parses a parameters file from disk.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameters file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing parameters file %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks the file shape: at least one node entry, and every entry
// carrying a ros__parameters mapping.
func (f *File) Validate() error {
	if len(f.Nodes) == 0 {
		return fmt.Errorf("parameters file declares no node entries")
	}
	for node, entry := range f.Nodes {
		if entry.Parameters == nil {
			return fmt.Errorf("node entry %q has no ros__parameters mapping", node)
		}
	}
	return nil
}

// Write emits a parameters file for a single node, used when a resolved
// in-memory parameter set must be handed to a child process.
func Write(path, nodeName string, values map[string]cty.Value) error {
	if nodeName == "" {
		nodeName = "/**"
	}
	converted := make(map[string]any, len(values))
	for name, value := range values {
		v, err := goValue(value)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		converted[name] = v
	}

	doc := map[string]NodeParams{nodeName: {Parameters: converted}}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// goValue converts a resolved cty value into a plain Go value for YAML
// serialization.
func goValue(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		f := v.AsBigFloat()
		if f.IsInt() {
			i, _ := f.Int(new(big.Int))
			return i.Int64(), nil
		}
		out, _ := f.Float64()
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var items []any
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			converted, err := goValue(elem)
			if err != nil {
				return nil, err
			}
			items = append(items, converted)
		}
		return items, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			converted, err := goValue(elem)
			if err != nil {
				return nil, err
			}
			out[key.AsString()] = converted
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %s", ty.FriendlyName())
	}
}
