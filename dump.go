package sightline

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

const redacted = "***redacted***"

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for DumpEffective.
type dumpConfig struct {
	withOrigins bool     // Include origin for each property
	asJSON      bool     // Output as JSON instead of text format
	indent      string   // Indentation for JSON output (default: "  ")
	secrets     []string // Names (and their descendants) to redact
}

// WithOrigins includes the origin of each property in the output.
func WithOrigins() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withOrigins = true
	}
}

// AsJSON outputs properties as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// WithRedactedNames redacts the values of the given names and everything below them.
// Names may use any supported spelling.
func WithRedactedNames(names ...string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.secrets = append(cfg.secrets, names...)
	}
}

// DumpEffective writes every name exposed by iterable sources in list, resolved
// with normal precedence, sorted by canonical name.
// Returns an error if writing to the writer fails.
func DumpEffective(w io.Writer, list SourceList, opts ...DumpOption) error {
	if list == nil {
		return ErrNilSources
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	props := EffectiveProperties(list)
	secrets := parseNames(config.secrets)

	if config.asJSON {
		return dumpAsJSON(w, props, secrets, config)
	}
	return dumpAsText(w, props, secrets, config)
}

// EffectiveProperties returns the winning property for every name exposed by
// an IterableSource in list, sorted by canonical name.
// Non-iterable sources still take part in precedence.
func EffectiveProperties(list SourceList) []Property {
	r := NewResolver(list, WithFaultHandler(nil))

	seen := make(map[string]bool)
	var props []Property
	for _, src := range list.Sources() {
		iterable, ok := src.(IterableSource)
		if !ok {
			continue
		}
		for _, name := range iterable.Names() {
			if seen[name.key()] {
				continue
			}
			seen[name.key()] = true
			if p, ok := r.FindName(name); ok {
				props = append(props, p)
			}
		}
	}

	sort.SliceStable(props, func(i, j int) bool {
		return props[i].Name.String() < props[j].Name.String()
	})
	return props
}

// dumpAsText outputs properties in text format (name: value).
func dumpAsText(w io.Writer, props []Property, secrets []Name, config dumpConfig) error {
	for _, p := range props {
		line := fmt.Sprintf("%s: %s", p.Name, formatValue(p, secrets))
		if config.withOrigins {
			line += fmt.Sprintf(" (origin: %s)", originString(p))
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

// dumpAsJSON outputs properties as a flat JSON object keyed by canonical name.
func dumpAsJSON(w io.Writer, props []Property, secrets []Name, config dumpConfig) error {
	result := make(map[string]any, len(props))
	for _, p := range props {
		value := jsonValue(p, secrets)
		if config.withOrigins {
			result[p.Name.String()] = map[string]any{
				"value":  value,
				"source": p.Source,
				"origin": originString(p),
			}
			continue
		}
		result[p.Name.String()] = value
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// formatValue formats a value for text output, redacting secrets.
func formatValue(p Property, secrets []Name) string {
	if matchesAny(p.Name, secrets) {
		return redacted
	}
	switch v := p.Value.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// jsonValue returns a value for JSON output, redacting secrets.
func jsonValue(p Property, secrets []Name) any {
	if matchesAny(p.Name, secrets) {
		return redacted
	}
	return p.Value
}

func originString(p Property) string {
	if p.Origin != nil {
		return p.Origin.String()
	}
	return p.Source
}

// matchesAny reports whether name equals or lies below any of names.
func matchesAny(name Name, names []Name) bool {
	for _, s := range names {
		if s.Equal(name) || s.IsAncestorOf(name) {
			return true
		}
	}
	return false
}

func parseNames(raw []string) []Name {
	names := make([]Name, 0, len(raw))
	for _, r := range raw {
		if n, _ := ParseName(r, Lenient); !n.IsEmpty() {
			names = append(names, n)
		}
	}
	return names
}
