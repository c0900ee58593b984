package sourcefile

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/Azhovan/sightline"
)

// parseDotenv reads KEY=VALUE lines. Blank lines and '#' comments are
// skipped, an optional "export " prefix is dropped and matching single or
// double quotes around the value are removed.
func parseDotenv(resource string, data []byte) ([]sightline.Entry, error) {
	var entries []sightline.Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		line, lead := trimLeft(raw)
		line = strings.TrimRight(line, " \t")

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "export "); ok {
			lead += len(line) - len(rest)
			line = rest
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, fmt.Errorf("invalid format at line %d: expected KEY=VALUE", lineNum)
		}

		key := strings.TrimSpace(line[:eq])
		if key == "" {
			return nil, fmt.Errorf("empty key at line %d", lineNum)
		}

		value, valueLead := trimLeft(line[eq+1:])
		if len(value) > 1 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		entries = append(entries, sightline.Entry{
			Key:   key,
			Value: value,
			Origin: sightline.TextOrigin{
				Resource: resource,
				Line:     lineNum,
				Column:   lead + eq + 1 + valueLead + 1,
			},
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning file: %w", err)
	}
	return entries, nil
}

// parseProperties reads Java-style "key=value", "key: value" or
// "key value" lines. '#' and '!' start comments. A line ending in an odd
// number of backslashes continues on the next line, and the escapes \t, \n,
// \r, \f, \uXXXX and \<char> are decoded in keys and values. A key without
// a separator gets an empty value. Origins point at the value on the
// entry's first line.
func parseProperties(resource string, data []byte) []sightline.Entry {
	var entries []sightline.Entry

	lines := strings.Split(string(data), "\n")
	for i := 0; i < len(lines); i++ {
		lineNum := i + 1
		line, lead := trimLeft(strings.TrimSuffix(lines[i], "\r"))
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}

		for continues(line) && i+1 < len(lines) {
			i++
			next, _ := trimLeft(strings.TrimSuffix(lines[i], "\r"))
			line = line[:len(line)-1] + next
		}
		if continues(line) {
			line = line[:len(line)-1]
		}

		sep := separatorIndex(line)
		key, rest := line, ""
		valueAt := len(line)
		if sep >= 0 {
			key = line[:sep]
			rest = line[sep:]
			// Whitespace around a single '=' or ':' belongs to the separator.
			trimmed, n := trimLeft(rest)
			if trimmed != "" && (trimmed[0] == '=' || trimmed[0] == ':') {
				n++
				trimmed = trimmed[1:]
			}
			value, m := trimLeft(trimmed)
			rest = value
			valueAt = sep + n + m
		}

		if key == "" {
			continue
		}

		entries = append(entries, sightline.Entry{
			Key:   unescapeProperty(key),
			Value: unescapeProperty(strings.TrimRight(rest, " \t")),
			Origin: sightline.TextOrigin{
				Resource: resource,
				Line:     lineNum,
				Column:   lead + valueAt + 1,
			},
		})
	}

	return entries
}

// continues reports whether line ends in an odd number of backslashes.
func continues(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// separatorIndex returns the index of the first unescaped '=', ':' or
// whitespace, or -1.
func separatorIndex(line string) int {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '=', ':', ' ', '\t':
			return i
		}
	}
	return -1
}

func unescapeProperty(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			if i+5 <= len(s) {
				if r, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(r))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// trimLeft strips leading spaces and tabs and reports how many were removed.
func trimLeft(s string) (string, int) {
	trimmed := strings.TrimLeft(s, " \t")
	return trimmed, len(s) - len(trimmed)
}
