package sightline

import "fmt"

// Property is a resolved value together with where it came from.
type Property struct {
	Name   Name   // Canonical name that matched
	Value  any    // Scalar or string as stored by the source
	Origin Origin // Nil when the source cannot report one
	Source string // Source identifier (e.g., "env", "file:config.yaml")
	RawKey string // Key as spelled in the source (e.g., "SERVER_PORT")
}

// String formats the property for diagnostics.
func (p Property) String() string {
	if p.Origin != nil {
		return fmt.Sprintf("%s=%v (%s)", p.Name, p.Value, p.Origin)
	}
	if p.Source != "" {
		return fmt.Sprintf("%s=%v (%s)", p.Name, p.Value, p.Source)
	}
	return fmt.Sprintf("%s=%v", p.Name, p.Value)
}
