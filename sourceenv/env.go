package sourceenv

import (
	"os"
	"sort"
	"strings"

	"github.com/Azhovan/sightline"
)

// SourceName is the name of sources created by New.
const SourceName = "env"

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty = load all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (APP_ matches app_, App_, etc.).
	CaseSensitive bool

	// Environ replaces os.Environ() as the variable list ("KEY=value" pairs).
	Environ []string

	// Name overrides SourceName.
	Name string
}

// New snapshots the environment into an immutable source.
// Later changes to the process environment are not observed; create a new
// source and swap it into the Environment instead.
func New(opts Options) *sightline.MapSource {
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}

	name := opts.Name
	if name == "" {
		name = SourceName
	}

	entries := make([]sightline.Entry, 0, len(environ))
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || key == "" {
			continue
		}
		entries = append(entries, sightline.Entry{
			Key:   key,
			Value: value,
			Origin: sightline.KeyOrigin{
				Source: name,
				Kind:   "environment variable",
				Key:    key,
			},
		})
	}

	// Later duplicates in environ win, like os.Getenv.
	entries = dedupeLast(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return sightline.NewMapSource(name, entries, sightline.WithKeyMapper(prefixMapper(opts)))
}

func prefixMapper(opts Options) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if opts.Prefix == "" {
			return key, true
		}

		var hasPrefix bool
		if opts.CaseSensitive {
			hasPrefix = strings.HasPrefix(key, opts.Prefix)
		} else {
			hasPrefix = strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(opts.Prefix))
		}
		if !hasPrefix {
			return "", false
		}

		key = key[len(opts.Prefix):]
		return key, key != ""
	}
}

func dedupeLast(entries []sightline.Entry) []sightline.Entry {
	last := make(map[string]int, len(entries))
	for i, e := range entries {
		last[e.Key] = i
	}
	out := make([]sightline.Entry, 0, len(last))
	for i, e := range entries {
		if last[e.Key] == i {
			out = append(out, e)
		}
	}
	return out
}
