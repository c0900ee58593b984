package sightline

import (
	"fmt"
	"strconv"
)

// Origin describes where a value physically came from.
type Origin interface {
	String() string
}

// TextOrigin is a position in a text resource. Line and Column are 1-based;
// zero means unknown.
type TextOrigin struct {
	Resource string
	Line     int
	Column   int
}

// String formats as "resource:line:column", omitting unknown parts.
func (o TextOrigin) String() string {
	switch {
	case o.Line <= 0:
		return o.Resource
	case o.Column <= 0:
		return o.Resource + ":" + strconv.Itoa(o.Line)
	default:
		return o.Resource + ":" + strconv.Itoa(o.Line) + ":" + strconv.Itoa(o.Column)
	}
}

// KeyOrigin names a key inside a non-textual source, such as an
// environment variable or a command line argument.
type KeyOrigin struct {
	Source string // Source identifier (e.g., "env")
	Kind   string // What the key is (e.g., "environment variable")
	Key    string // Raw key (e.g., "SERVER_PORT")
}

// String formats as `environment variable "SERVER_PORT"`.
func (o KeyOrigin) String() string {
	if o.Kind != "" {
		return fmt.Sprintf("%s %q", o.Kind, o.Key)
	}
	return fmt.Sprintf("%q from %s", o.Key, o.Source)
}
