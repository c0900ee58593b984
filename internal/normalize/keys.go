package normalize

import (
	"fmt"
	"strings"
)

// Kind classifies a parsed name element.
type Kind uint8

const (
	// Word is a lower-case run of letters and digits.
	Word Kind = iota
	// Index is a decimal list index, from "[2]" or an all-digit segment.
	Index
	// Key is a bracketed literal such as "[Some.Key]". Case is preserved.
	Key
)

// Element is a single canonical name element.
type Element struct {
	Value string
	Kind  Kind
}

// Indexed reports whether the element is a list index.
func (e Element) Indexed() bool {
	return e.Kind == Index
}

// SyntaxError describes why a raw key could not be split into elements.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return e.Reason
}

// Split breaks a raw key into canonical elements.
// Dots, hyphens, underscores and camel-case boundaries all separate words.
// Runs of hyphens or underscores collapse, so "FOO__BAR" splits like "foo.bar".
// All-digit segments and "[n]" become indices.
// Examples:
//   - "server.port" → [server port]
//   - "SERVER_PORT" → [server port]
//   - "serverPort" → [server port]
//   - "list[0].name" → [list [0] name]
//   - "LIST_0_NAME" → [list [0] name]
func Split(raw string) ([]Element, *SyntaxError) {
	if raw == "" {
		return nil, &SyntaxError{Offset: 0, Reason: "name is empty"}
	}

	var elements []Element
	i := 0
	for i < len(raw) {
		start := i
		count := 0

		for i < len(raw) && raw[i] != '.' && raw[i] != '[' {
			c := raw[i]
			if c == ']' {
				return nil, &SyntaxError{Offset: i, Reason: "unbalanced ']'"}
			}
			if !isPlainByte(c) {
				return nil, &SyntaxError{Offset: i, Reason: "illegal character " + quoteByte(c)}
			}
			i++
		}
		words := splitWords(raw[start:i])
		elements = append(elements, words...)
		count += len(words)

		for i < len(raw) && raw[i] == '[' {
			end := strings.IndexByte(raw[i+1:], ']')
			if end < 0 {
				return nil, &SyntaxError{Offset: i, Reason: "unbalanced '['"}
			}
			inner := raw[i+1 : i+1+end]
			if inner == "" {
				return nil, &SyntaxError{Offset: i, Reason: "empty brackets"}
			}
			if strings.IndexByte(inner, '[') >= 0 {
				return nil, &SyntaxError{Offset: i, Reason: "nested '['"}
			}
			elements = append(elements, bracketElement(inner))
			count++
			i += end + 2
		}

		if count == 0 {
			return nil, &SyntaxError{Offset: start, Reason: "empty element"}
		}

		if i < len(raw) {
			if raw[i] != '.' {
				return nil, &SyntaxError{Offset: i, Reason: "expected '.' or '[' after ']'"}
			}
			i++
			if i == len(raw) {
				return nil, &SyntaxError{Offset: i - 1, Reason: "trailing '.'"}
			}
		}
	}

	return elements, nil
}

// splitWords splits a dot-free, bracket-free segment on '-', '_' and
// camel-case boundaries.
func splitWords(segment string) []Element {
	var out []Element
	start := -1

	emit := func(end int) {
		if start >= 0 && end > start {
			out = append(out, wordElement(segment[start:end]))
		}
		start = -1
	}

	for i := 0; i < len(segment); i++ {
		c := segment[i]
		if c == '-' || c == '_' {
			emit(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if isUpper(c) {
			prev := segment[i-1]
			nextLower := i+1 < len(segment) && isLower(segment[i+1])
			if isLower(prev) || isDigit(prev) || (isUpper(prev) && nextLower) {
				emit(i)
				start = i
			}
		}
	}
	emit(len(segment))

	return out
}

func wordElement(word string) Element {
	if isDigits(word) {
		return Element{Value: trimIndex(word), Kind: Index}
	}
	return Element{Value: strings.ToLower(word), Kind: Word}
}

func bracketElement(inner string) Element {
	if isDigits(inner) {
		return Element{Value: trimIndex(inner), Kind: Index}
	}
	return Element{Value: inner, Kind: Key}
}

// trimIndex strips leading zeros so "007" and "7" compare equal.
func trimIndex(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// IsPlainWord reports whether s can be written as a dotted element without brackets.
func IsPlainWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLower(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// ApplyPrefix combines a prefix with a raw key.
// Keys that cannot be written as plain dotted segments are bracketed.
// Examples:
//   - ApplyPrefix("database", "host") → "database.host"
//   - ApplyPrefix("", "host") → "host"
//   - ApplyPrefix("servers", "0") → "servers[0]"
//   - ApplyPrefix("labels", "app.kubernetes.io/name") → "labels[app.kubernetes.io/name]"
func ApplyPrefix(prefix, key string) string {
	if key == "" {
		return prefix
	}
	if isDigits(key) {
		return prefix + "[" + key + "]"
	}
	if !isPlainKey(key) {
		return prefix + "[" + key + "]"
	}
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// isPlainKey reports whether key is made only of plain characters and dots
// and would split cleanly.
func isPlainKey(key string) bool {
	for i := 0; i < len(key); i++ {
		if key[i] != '.' && !isPlainByte(key[i]) {
			return false
		}
	}
	return key[0] != '.' && key[len(key)-1] != '.' && !strings.Contains(key, "..")
}

func isPlainByte(c byte) bool {
	return isLower(c) || isUpper(c) || isDigit(c) || c == '-' || c == '_'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func quoteByte(c byte) string {
	return fmt.Sprintf("%q", rune(c))
}
