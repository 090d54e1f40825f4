package xacro

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
)

// scope is a chain of property tables. Macro instantiation pushes a child
// scope so parameter and block bindings shadow outer ones without leaking.
type scope struct {
	parent *scope
	values map[string]string
	blocks map[string]*etree.Element
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, values: make(map[string]string)}
}

func (s *scope) set(name, value string) {
	s.values[name] = value
}

func (s *scope) setBlock(name string, el *etree.Element) {
	if s.blocks == nil {
		s.blocks = make(map[string]*etree.Element)
	}
	s.blocks[name] = el
}

func (s *scope) lookup(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.values[name]; ok {
			return v, true
		}
	}
	return "", false
}

func (s *scope) lookupBlock(name string) (*etree.Element, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if el, ok := cur.blocks[name]; ok {
			return el, true
		}
	}
	return nil, false
}

// interpolate substitutes ${property} references and $(command operand)
// extensions in a string. "$$" escapes a literal dollar sign.
func (x *expander) interpolate(s string, sc *scope) (string, error) {
	if !strings.ContainsRune(s, '$') {
		return s, nil
	}

	var out strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '$' {
			out.WriteByte(s[i])
			i++
			continue
		}
		if i+1 >= len(s) {
			out.WriteByte('$')
			break
		}
		switch s[i+1] {
		case '$':
			out.WriteByte('$')
			i += 2
		case '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated property reference in %q", s)
			}
			name := strings.TrimSpace(s[i+2 : i+2+end])
			value, ok := sc.lookup(name)
			if !ok {
				return "", fmt.Errorf("unresolved property %q in %q", name, s)
			}
			out.WriteString(value)
			i += end + 3
		case '(':
			end := strings.IndexByte(s[i+2:], ')')
			if end < 0 {
				return "", fmt.Errorf("unterminated substitution in %q", s)
			}
			value, err := x.evalExtension(strings.TrimSpace(s[i+2 : i+2+end]))
			if err != nil {
				return "", err
			}
			out.WriteString(value)
			i += end + 3
		default:
			out.WriteByte('$')
			i++
		}
	}
	return out.String(), nil
}

// evalExtension handles the $(command operand) forms.
func (x *expander) evalExtension(expr string) (string, error) {
	command, operand, found := strings.Cut(expr, " ")
	if !found || operand == "" {
		return "", fmt.Errorf("malformed substitution $(%s)", expr)
	}
	operand = strings.TrimSpace(operand)

	switch command {
	case "arg":
		value, ok := x.opts.Arguments[operand]
		if !ok {
			return "", fmt.Errorf("undefined argument %q in $(%s)", operand, expr)
		}
		return value, nil
	case "find":
		if x.opts.FindShare == nil {
			return "", fmt.Errorf("$(find %s): package lookup is not available", operand)
		}
		dir, err := x.opts.FindShare(operand)
		if err != nil {
			return "", fmt.Errorf("$(find %s): %w", operand, err)
		}
		return dir, nil
	case "env":
		getenv := x.opts.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		return getenv(operand), nil
	default:
		return "", fmt.Errorf("unsupported substitution command %q in $(%s)", command, expr)
	}
}
