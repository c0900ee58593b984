// Package sourcefile exposes YAML, JSON, TOML, .env and .properties files as
// property sources.
//
// Format is auto-detected from extension (.yaml, .yml, .json, .toml, .env,
// .properties). Nested maps flatten to dotted names and lists to indexed
// names ("servers[0].host"). YAML, .env and .properties origins carry
// line and column; JSON and TOML origins name the file only.
//
// Example:
//
//	src, err := sourcefile.New("config.yaml", sourcefile.Options{Required: true})
//	env := sightline.NewEnvironment(src)
package sourcefile
