package xacro

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// namespacePrefix marks elements that carry expansion directives.
const namespacePrefix = "xacro"

// TemplateExpansionError reports a template that could not be expanded:
// malformed XML, an unresolved property or macro, a missing include, or an
// include cycle. It wraps the underlying cause.
type TemplateExpansionError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *TemplateExpansionError) Error() string {
	return fmt.Sprintf("expanding template %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TemplateExpansionError) Unwrap() error {
	return e.Err
}

// Options configures one expansion run.
type Options struct {
	// Arguments backs $(arg name) interpolation.
	Arguments map[string]string

	// FindShare backs $(find package) interpolation. May be nil, in which
	// case $(find ...) fails the expansion.
	FindShare func(pkg string) (string, error)

	// Getenv backs $(env NAME) interpolation. Defaults to os.Getenv.
	Getenv func(name string) string
}

// ExpandFile expands the template at path and returns the pretty-printed
// result. Any failure is returned as a *TemplateExpansionError; the caller
// never observes partial output.
func ExpandFile(path string, opts Options) (string, error) {
	x := newExpander(opts)
	out, err := x.expandFile(path)
	if err != nil {
		return "", &TemplateExpansionError{Path: path, Err: err}
	}
	return out, nil
}

type macro struct {
	params []macroParam
	body   *etree.Element
}

type macroParam struct {
	name       string
	def        *string
	hasDefault bool
	block      bool
}

type expander struct {
	opts    Options
	macros  map[string]*macro
	loading map[string]bool
	dir     string
}

func newExpander(opts Options) *expander {
	return &expander{
		opts:    opts,
		macros:  make(map[string]*macro),
		loading: make(map[string]bool),
	}
}

func (x *expander) expandFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	doc, err := x.parse(abs)
	if err != nil {
		return "", err
	}
	x.dir = filepath.Dir(abs)
	x.loading[abs] = true
	defer delete(x.loading, abs)
	root := doc.Root()
	if root == nil {
		return "", fmt.Errorf("document has no root element")
	}

	scope := newScope(nil)
	if err := x.interpolateAttrs(root, scope); err != nil {
		return "", err
	}
	if err := x.expandChildren(root, scope); err != nil {
		return "", err
	}
	root.RemoveAttr("xmlns:" + namespacePrefix)

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	return out, nil
}

// parse reads a template file and tracks it for include-cycle detection.
func (x *expander) parse(path string) (*etree.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if x.loading[abs] {
		return nil, fmt.Errorf("include cycle through %s", abs)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(abs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", abs, err)
	}
	return doc, nil
}

// expandChildren processes the child tokens of an element in document order.
// Directive elements are consumed in place; regular elements get their
// attributes and text interpolated and are recursed into.
func (x *expander) expandChildren(el *etree.Element, scope *scope) error {
	for i := 0; i < len(el.Child); {
		child, ok := el.Child[i].(*etree.Element)
		if !ok {
			if text, isText := el.Child[i].(*etree.CharData); isText {
				data, err := x.interpolate(text.Data, scope)
				if err != nil {
					return err
				}
				text.Data = data
			}
			i++
			continue
		}

		if child.Space == namespacePrefix {
			advance, err := x.applyDirective(el, child, i, scope)
			if err != nil {
				return err
			}
			i += advance
			continue
		}

		if err := x.interpolateAttrs(child, scope); err != nil {
			return err
		}
		if err := x.expandChildren(child, scope); err != nil {
			return err
		}
		i++
	}
	return nil
}

// applyDirective handles one xacro:* element found at index i of parent.
// It returns how far the caller's index should advance: 0 when the directive
// was replaced by tokens that still need processing, or the number of fully
// expanded tokens spliced in.
func (x *expander) applyDirective(parent *etree.Element, el *etree.Element, i int, scope *scope) (int, error) {
	switch el.Tag {
	case "property":
		name := el.SelectAttrValue("name", "")
		if name == "" {
			return 0, fmt.Errorf("property element is missing a name attribute")
		}
		value, err := x.interpolate(el.SelectAttrValue("value", ""), scope)
		if err != nil {
			return 0, err
		}
		scope.set(name, value)
		parent.RemoveChildAt(i)
		return 0, nil

	case "macro":
		return 0, x.defineMacro(parent, el, i, scope)

	case "include":
		return x.spliceInclude(parent, el, i, scope)

	case "insert_block":
		name := el.SelectAttrValue("name", "")
		if name == "" {
			return 0, fmt.Errorf("insert_block element is missing a name attribute")
		}
		block, ok := scope.lookupBlock(name)
		if !ok {
			return 0, fmt.Errorf("insert_block references unknown block %q", name)
		}
		parent.RemoveChildAt(i)
		parent.InsertChildAt(i, block.Copy())
		return 0, nil

	case "if", "unless":
		keep, err := x.evalCondition(el, scope)
		if err != nil {
			return 0, err
		}
		tokens := el.Child
		parent.RemoveChildAt(i)
		if !keep {
			return 0, nil
		}
		for j, tok := range tokens {
			parent.InsertChildAt(i+j, copyToken(tok))
		}
		return 0, nil

	default:
		return x.instantiateMacro(parent, el, i, scope)
	}
}

func (x *expander) defineMacro(parent *etree.Element, el *etree.Element, i int, scope *scope) error {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return fmt.Errorf("macro element is missing a name attribute")
	}
	if _, exists := x.macros[name]; exists {
		return fmt.Errorf("macro %q defined twice", name)
	}

	var params []macroParam
	for _, field := range strings.Fields(el.SelectAttrValue("params", "")) {
		if block, found := strings.CutPrefix(field, "*"); found {
			params = append(params, macroParam{name: block, block: true})
			continue
		}
		p := macroParam{name: field}
		if name, def, found := strings.Cut(field, ":="); found {
			p = macroParam{name: name, def: &def, hasDefault: true}
		}
		params = append(params, p)
	}
	x.macros[name] = &macro{params: params, body: el.Copy()}
	parent.RemoveChildAt(i)
	return nil
}

func (x *expander) spliceInclude(parent *etree.Element, el *etree.Element, i int, scope *scope) (int, error) {
	filename, err := x.interpolate(el.SelectAttrValue("filename", ""), scope)
	if err != nil {
		return 0, err
	}
	if filename == "" {
		return 0, fmt.Errorf("include element is missing a filename attribute")
	}
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(x.dir, filename)
	}
	abs, err := filepath.Abs(filename)
	if err != nil {
		return 0, err
	}

	doc, err := x.parse(abs)
	if err != nil {
		return 0, err
	}
	root := doc.Root()
	if root == nil {
		return 0, fmt.Errorf("included file %s has no root element", abs)
	}

	// Included content is expanded in the context of its own directory so
	// that nested relative includes keep working.
	savedDir := x.dir
	x.dir = filepath.Dir(abs)
	x.loading[abs] = true
	expandErr := x.expandChildren(root, scope)
	delete(x.loading, abs)
	x.dir = savedDir
	if expandErr != nil {
		return 0, expandErr
	}

	parent.RemoveChildAt(i)
	inserted := 0
	for _, tok := range root.Child {
		if _, isElement := tok.(*etree.Element); !isElement {
			continue
		}
		parent.InsertChildAt(i+inserted, copyToken(tok))
		inserted++
	}
	// The spliced content was expanded in the included file's context and
	// needs no second pass.
	return inserted, nil
}

func (x *expander) instantiateMacro(parent *etree.Element, el *etree.Element, i int, scope *scope) (int, error) {
	m, ok := x.macros[el.Tag]
	if !ok {
		return 0, fmt.Errorf("unknown macro or directive %q", namespacePrefix+":"+el.Tag)
	}

	macroScope := newScope(scope)
	childElements := el.ChildElements()
	for _, param := range m.params {
		if param.block {
			// Starred parameters consume the instantiation's child elements
			// in order.
			if len(childElements) == 0 {
				return 0, fmt.Errorf("macro %q instantiated without required block %q", el.Tag, param.name)
			}
			macroScope.setBlock(param.name, childElements[0])
			childElements = childElements[1:]
			continue
		}
		attr := el.SelectAttr(param.name)
		switch {
		case attr != nil:
			value, err := x.interpolate(attr.Value, scope)
			if err != nil {
				return 0, err
			}
			macroScope.set(param.name, value)
		case param.hasDefault:
			macroScope.set(param.name, *param.def)
		default:
			return 0, fmt.Errorf("macro %q instantiated without required parameter %q", el.Tag, param.name)
		}
	}

	body := m.body.Copy()
	if err := x.expandChildren(body, macroScope); err != nil {
		return 0, err
	}

	parent.RemoveChildAt(i)
	inserted := 0
	for _, tok := range body.Child {
		parent.InsertChildAt(i+inserted, copyToken(tok))
		inserted++
	}
	// The macro body was expanded in its own scope; nothing inside it needs
	// a second pass.
	return inserted, nil
}

func (x *expander) evalCondition(el *etree.Element, scope *scope) (bool, error) {
	raw, err := x.interpolate(el.SelectAttrValue("value", ""), scope)
	if err != nil {
		return false, err
	}
	var truthy bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		truthy = true
	case "false", "0":
		truthy = false
	default:
		return false, fmt.Errorf("condition value %q is not a boolean", raw)
	}
	if el.Tag == "unless" {
		truthy = !truthy
	}
	return truthy, nil
}

func (x *expander) interpolateAttrs(el *etree.Element, scope *scope) error {
	for j := range el.Attr {
		value, err := x.interpolate(el.Attr[j].Value, scope)
		if err != nil {
			return err
		}
		el.Attr[j].Value = value
	}
	return nil
}

// copyToken deep-copies a child token for splicing. Unsupported token kinds
// (processing instructions inside bodies) are copied as-is losslessly via
// their textual forms.
func copyToken(tok etree.Token) etree.Token {
	switch t := tok.(type) {
	case *etree.Element:
		return t.Copy()
	case *etree.CharData:
		return etree.NewText(t.Data)
	case *etree.Comment:
		return etree.NewComment(t.Data)
	default:
		return tok
	}
}
