package launch

// Substitution is a deferred string value resolved against the launch
// arguments once they are known.
type Substitution interface {
	Resolve(args *Arguments) (string, error)
}

// Text is a fixed string that resolves to itself.
type Text string

// Resolve implements Substitution.
func (t Text) Resolve(*Arguments) (string, error) {
	return string(t), nil
}

// Configuration resolves to the value of a launch argument. The inline
// Default applies only when the argument was neither supplied nor declared
// anywhere in the description; a declaration's default takes precedence over
// it, matching the semantics of the launch runtime this tool mirrors.
type Configuration struct {
	Name    string
	Default *string
}

// Config returns a Configuration substitution without an inline default.
func Config(name string) Configuration {
	return Configuration{Name: name}
}

// ConfigDefault returns a Configuration substitution with an inline default.
func ConfigDefault(name, def string) Configuration {
	return Configuration{Name: name, Default: &def}
}

// Resolve implements Substitution.
func (c Configuration) Resolve(args *Arguments) (string, error) {
	if v, ok := args.Get(c.Name); ok {
		return v, nil
	}
	if c.Default != nil {
		return *c.Default, nil
	}
	return "", &MissingArgumentError{Name: c.Name}
}

// Arguments holds the resolved launch argument values for one description.
type Arguments struct {
	values map[string]string
}

// NewArguments builds an argument store from a plain map.
func NewArguments(values map[string]string) *Arguments {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Arguments{values: copied}
}

// Get returns the value for a named argument.
func (a *Arguments) Get(name string) (string, bool) {
	if a == nil || a.values == nil {
		return "", false
	}
	v, ok := a.values[name]
	return v, ok
}

func (a *Arguments) set(name, value string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	a.values[name] = value
}

// Map returns a copy of all argument values.
func (a *Arguments) Map() map[string]string {
	out := make(map[string]string, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}
