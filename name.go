package sightline

import (
	"strings"

	"github.com/Azhovan/sightline/internal/normalize"
)

// ParseMode controls how ParseName treats malformed input.
type ParseMode uint8

const (
	// Lenient maps malformed input to an empty Name and a nil error.
	Lenient ParseMode = iota
	// Strict surfaces malformed input as a *NameFormatError.
	Strict
)

// Name is a canonical, convention-independent property name.
// "server.port", "server-port", "SERVER_PORT" and "serverPort" all parse to
// the same Name. The zero value is the empty name, which matches nothing.
type Name struct {
	elements []normalize.Element
}

// ParseName converts a raw key into its canonical Name.
func ParseName(raw string, mode ParseMode) (Name, error) {
	elements, syntaxErr := normalize.Split(raw)
	if syntaxErr != nil {
		if mode == Strict {
			return Name{}, &NameFormatError{Raw: raw, Offset: syntaxErr.Offset, Reason: syntaxErr.Reason}
		}
		return Name{}, nil
	}
	return Name{elements: elements}, nil
}

// MustParseName is like ParseName in strict mode but panics on error.
func MustParseName(raw string) Name {
	name, err := ParseName(raw, Strict)
	if err != nil {
		panic(err)
	}
	return name
}

// IsEmpty reports whether the name has no elements.
func (n Name) IsEmpty() bool {
	return len(n.elements) == 0
}

// Len returns the number of elements.
func (n Name) Len() int {
	return len(n.elements)
}

// Element returns the i-th element value.
func (n Name) Element(i int) string {
	return n.elements[i].Value
}

// IsIndexed reports whether the i-th element is a list index.
func (n Name) IsIndexed(i int) bool {
	return n.elements[i].Indexed()
}

// Last returns the final element value, or "" for the empty name.
func (n Name) Last() string {
	if n.IsEmpty() {
		return ""
	}
	return n.elements[len(n.elements)-1].Value
}

// Parent returns the name without its final element.
func (n Name) Parent() Name {
	if len(n.elements) <= 1 {
		return Name{}
	}
	return Name{elements: n.elements[:len(n.elements)-1:len(n.elements)-1]}
}

// Append returns a new name with the elements of suffix appended.
// An unparseable suffix leaves the name unchanged.
func (n Name) Append(suffix string) Name {
	extra, err := normalize.Split(suffix)
	if err != nil {
		return n
	}
	elements := make([]normalize.Element, 0, len(n.elements)+len(extra))
	elements = append(elements, n.elements...)
	elements = append(elements, extra...)
	return Name{elements: elements}
}

// Equal reports whether both names have the same elements.
func (n Name) Equal(other Name) bool {
	if len(n.elements) != len(other.elements) {
		return false
	}
	for i := range n.elements {
		if !elementEqual(n.elements[i], other.elements[i]) {
			return false
		}
	}
	return true
}

// IsParentOf reports whether n is the immediate parent of other.
func (n Name) IsParentOf(other Name) bool {
	return len(other.elements) == len(n.elements)+1 && n.isPrefixOf(other)
}

// IsAncestorOf reports whether n is a proper prefix of other.
func (n Name) IsAncestorOf(other Name) bool {
	return len(other.elements) > len(n.elements) && n.isPrefixOf(other)
}

func (n Name) isPrefixOf(other Name) bool {
	for i := range n.elements {
		if !elementEqual(n.elements[i], other.elements[i]) {
			return false
		}
	}
	return true
}

// String returns the canonical dotted form, e.g. "list[0].name".
func (n Name) String() string {
	var b strings.Builder
	for i, e := range n.elements {
		switch {
		case e.Kind == normalize.Index:
			b.WriteString("[" + e.Value + "]")
		case e.Kind == normalize.Key && !normalize.IsPlainWord(e.Value):
			b.WriteString("[" + e.Value + "]")
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(e.Value)
		}
	}
	return b.String()
}

// key returns a map key that is equal for equal names.
func (n Name) key() string {
	var b strings.Builder
	for _, e := range n.elements {
		if e.Indexed() {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
		b.WriteString(e.Value)
		b.WriteByte(0)
	}
	return b.String()
}

// Word and key elements share one namespace: "map[foo]" equals "map.foo".
func elementEqual(a, b normalize.Element) bool {
	return a.Indexed() == b.Indexed() && a.Value == b.Value
}
