package sourceargs

import (
	"strings"

	"github.com/Azhovan/sightline"
)

// SourceName is the name of sources created by New.
const SourceName = "args"

// New parses args into an immutable source. Raw keys keep their leading
// dashes ("--server.port") so origins show the option as typed.
func New(args []string) *sightline.MapSource {
	return NewNamed(SourceName, args)
}

// NewNamed is like New with a custom source name.
func NewNamed(name string, args []string) *sightline.MapSource {
	var order []string
	options := make(map[string]string)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "--") || len(arg) == 2 {
			continue
		}

		key, value, hasValue := strings.Cut(arg, "=")
		if !hasValue {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
				value = args[i+1]
				i++
			} else {
				value = "true"
			}
		}

		if _, seen := options[key]; !seen {
			order = append(order, key)
		}
		options[key] = value
	}

	entries := make([]sightline.Entry, 0, len(order))
	for _, key := range order {
		entries = append(entries, sightline.Entry{
			Key:   key,
			Value: options[key],
			Origin: sightline.KeyOrigin{
				Source: name,
				Kind:   "command line argument",
				Key:    key,
			},
		})
	}

	return sightline.NewMapSource(name, entries, sightline.WithKeyMapper(stripDashes))
}

func stripDashes(key string) (string, bool) {
	key = strings.TrimPrefix(key, "--")
	return key, key != ""
}
