package sourcefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Azhovan/sightline"
	"github.com/Azhovan/sightline/internal/normalize"
)

// Supported formats.
const (
	FormatYAML       = "yaml"
	FormatJSON       = "json"
	FormatTOML       = "toml"
	FormatDotenv     = "env"
	FormatProperties = "properties"
)

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", "toml", "env" or "properties". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (empty source).
	Required bool

	// Name overrides the default "file:<basename>" source name.
	Name string
}

// New reads and parses the file at path into an immutable source.
func New(path string, opts Options) (*sightline.MapSource, error) {
	name := opts.Name
	if name == "" {
		name = "file:" + filepath.Base(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if opts.Required {
				return nil, fmt.Errorf("required config file not found: %s: %w", path, err)
			}
			return sightline.NewMapSource(name, nil), nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	format := opts.Format
	if format == "" {
		format = inferFormat(path)
	}

	entries, err := Parse(path, format, data)
	if err != nil {
		return nil, err
	}
	return sightline.NewMapSource(name, entries), nil
}

// Parse flattens data in the given format into entries. resource is
// recorded in every origin.
func Parse(resource, format string, data []byte) ([]sightline.Entry, error) {
	switch format {
	case FormatYAML, "yml":
		entries, err := parseYAML(resource, data)
		if err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", resource, err)
		}
		return entries, nil
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", resource, err)
		}
		var entries []sightline.Entry
		flatten("", raw, sightline.TextOrigin{Resource: resource}, &entries)
		return entries, nil
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", resource, err)
		}
		var entries []sightline.Entry
		flatten("", raw, sightline.TextOrigin{Resource: resource}, &entries)
		return entries, nil
	case FormatDotenv:
		entries, err := parseDotenv(resource, data)
		if err != nil {
			return nil, fmt.Errorf("parse env file %s: %w", resource, err)
		}
		return entries, nil
	case FormatProperties:
		return parseProperties(resource, data), nil
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml, env, properties)", format)
	}
}

// maxYAMLEntries bounds the entries one YAML document may produce, counting
// every alias expansion.
const maxYAMLEntries = 100000

// parseYAML walks the node tree so every scalar keeps its line and column.
func parseYAML(resource string, data []byte) ([]sightline.Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}

	w := &yamlWalker{resource: resource, visiting: make(map[*yaml.Node]bool)}
	if err := w.walk("", root); err != nil {
		return nil, err
	}
	return w.entries, nil
}

type yamlWalker struct {
	resource string
	entries  []sightline.Entry
	visiting map[*yaml.Node]bool // anchors currently being expanded
	expanded int
}

func (w *yamlWalker) walk(prefix string, n *yaml.Node) error {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil
		}
		if w.visiting[n.Alias] {
			return fmt.Errorf("alias %q at line %d refers to itself", n.Value, n.Line)
		}
		w.expanded++
		if w.expanded > maxYAMLEntries {
			return fmt.Errorf("too many alias expansions (limit %d)", maxYAMLEntries)
		}
		w.visiting[n.Alias] = true
		defer delete(w.visiting, n.Alias)
		return w.walk(prefix, n.Alias)

	case yaml.MappingNode:
		// Merged keys ("<<: *base") go after explicit ones so explicit keys win.
		var merges []*yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				merges = append(merges, v)
				continue
			}
			if err := w.walk(normalize.ApplyPrefix(prefix, k.Value), v); err != nil {
				return err
			}
		}
		for _, m := range merges {
			if m.Kind == yaml.SequenceNode {
				for _, item := range m.Content {
					if err := w.walk(prefix, item); err != nil {
						return err
					}
				}
				continue
			}
			if err := w.walk(prefix, m); err != nil {
				return err
			}
		}

	case yaml.SequenceNode:
		for i, item := range n.Content {
			if err := w.walk(normalize.ApplyPrefix(prefix, strconv.Itoa(i)), item); err != nil {
				return err
			}
		}

	case yaml.ScalarNode:
		if prefix == "" {
			return nil
		}
		if len(w.entries) >= maxYAMLEntries {
			return fmt.Errorf("too many entries (limit %d)", maxYAMLEntries)
		}
		var value any
		if err := n.Decode(&value); err != nil {
			return fmt.Errorf("decode %s at line %d: %w", prefix, n.Line, err)
		}
		w.entries = append(w.entries, sightline.Entry{
			Key:    prefix,
			Value:  value,
			Origin: sightline.TextOrigin{Resource: w.resource, Line: n.Line, Column: n.Column},
		})
	}
	return nil
}

// flatten recursively flattens decoded maps and slices to dotted/indexed
// keys. Map keys are visited in sorted order.
func flatten(prefix string, value any, origin sightline.Origin, out *[]sightline.Entry) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			flatten(normalize.ApplyPrefix(prefix, key), v[key], origin, out)
		}
	case []any:
		for i, item := range v {
			flatten(normalize.ApplyPrefix(prefix, strconv.Itoa(i)), item, origin, out)
		}
	case []map[string]any:
		for i, item := range v {
			flatten(normalize.ApplyPrefix(prefix, strconv.Itoa(i)), item, origin, out)
		}
	case json.Number:
		if prefix == "" {
			return
		}
		*out = append(*out, sightline.Entry{Key: prefix, Value: jsonNumber(v), Origin: origin})
	default:
		if prefix == "" {
			return
		}
		*out = append(*out, sightline.Entry{Key: prefix, Value: value, Origin: origin})
	}
}

func jsonNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func inferFormat(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return FormatDotenv
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	case ".env":
		return FormatDotenv
	case ".properties":
		return FormatProperties
	default:
		return ""
	}
}
