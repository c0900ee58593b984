package sightline

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrPlaceholderCycle is returned when placeholder expansion refers back to itself.
	ErrPlaceholderCycle = errors.New("sightline: circular placeholder reference")

	// ErrNilSources is returned when an operation receives a nil SourceList.
	ErrNilSources = errors.New("sightline: source list is nil")
)

// NameFormatError reports a raw property name that has no canonical form.
// Only strict parsing surfaces it.
type NameFormatError struct {
	Raw    string // Input as given
	Offset int    // Byte offset of the problem
	Reason string // Human-readable description
}

func (e *NameFormatError) Error() string {
	return fmt.Sprintf("invalid property name %q at offset %d: %s", e.Raw, e.Offset, e.Reason)
}

// SourceFault describes a source that failed internally during lookup.
// The resolver treats it as "no match" and hands it to the fault handler.
type SourceFault struct {
	Source string // Source name
	Name   Name   // Canonical name being looked up
	Err    error
}

func (e *SourceFault) Error() string {
	return fmt.Sprintf("source %s: lookup %s: %v", e.Source, e.Name, e.Err)
}

func (e *SourceFault) Unwrap() error {
	return e.Err
}

// UnresolvedPlaceholderError reports a placeholder with no value and no default.
type UnresolvedPlaceholderError struct {
	Name  string // Placeholder name as written
	Chain []string
}

func (e *UnresolvedPlaceholderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not resolve placeholder ${%s}", e.Name)
	if len(e.Chain) > 0 {
		fmt.Fprintf(&b, " (via %s)", strings.Join(e.Chain, " -> "))
	}
	return b.String()
}
