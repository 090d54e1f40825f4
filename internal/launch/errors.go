package launch

import "fmt"

// MissingArgumentError reports a required launch argument that was neither
// supplied by the caller nor covered by a default. It aborts resolution
// before any process record is built.
type MissingArgumentError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("launch argument %q was not provided and has no default value", e.Name)
}
