package sightline

import (
	"fmt"
	"strings"
)

const (
	placeholderPrefix = "${"
	placeholderSuffix = "}"
	placeholderEscape = "$${"
	defaultSeparator  = ":"
)

// Expand replaces ${name} and ${name:default} placeholders in text with
// resolved values. Resolved values are expanded in turn; a reference back
// to a name already being expanded returns ErrPlaceholderCycle.
// "$${" produces a literal "${". An unterminated placeholder is kept as is.
func (r *Resolver) Expand(text string) (string, error) {
	return r.expand(text, nil)
}

func (r *Resolver) expand(text string, chain []string) (string, error) {
	if !strings.Contains(text, placeholderPrefix) {
		return text, nil
	}

	var b strings.Builder
	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], placeholderEscape) {
			b.WriteString(placeholderPrefix)
			i += len(placeholderEscape)
			continue
		}
		if !strings.HasPrefix(text[i:], placeholderPrefix) {
			b.WriteByte(text[i])
			i++
			continue
		}

		end := closingBrace(text, i+len(placeholderPrefix))
		if end < 0 {
			b.WriteString(text[i:])
			break
		}

		body, err := r.expand(text[i+len(placeholderPrefix):end], chain)
		if err != nil {
			return "", err
		}
		value, err := r.resolvePlaceholder(body, chain)
		if err != nil {
			return "", err
		}
		b.WriteString(value)
		i = end + len(placeholderSuffix)
	}

	return b.String(), nil
}

func (r *Resolver) resolvePlaceholder(body string, chain []string) (string, error) {
	rawName, def, hasDefault := strings.Cut(body, defaultSeparator)
	rawName = strings.TrimSpace(rawName)

	name, _ := ParseName(rawName, Lenient)
	if !name.IsEmpty() {
		canonical := name.String()
		for _, seen := range chain {
			if seen == canonical {
				return "", fmt.Errorf("%w: %s -> %s", ErrPlaceholderCycle, strings.Join(chain, " -> "), canonical)
			}
		}

		if p, ok := r.FindName(name); ok {
			return r.expand(valueString(p.Value), append(chain[:len(chain):len(chain)], canonical))
		}
	}

	if hasDefault {
		return def, nil
	}
	return "", &UnresolvedPlaceholderError{Name: rawName, Chain: chain}
}

// closingBrace returns the index of the "}" matching a placeholder whose
// body starts at from, honoring nested placeholders.
func closingBrace(text string, from int) int {
	depth := 1
	for i := from; i < len(text); i++ {
		switch {
		case strings.HasPrefix(text[i:], placeholderPrefix):
			depth++
			i++
		case text[i] == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func valueString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
