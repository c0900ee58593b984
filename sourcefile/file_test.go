package sourcefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azhovan/sightline"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func lookup(t *testing.T, src *sightline.MapSource, name string) sightline.Property {
	t.Helper()
	res := src.Lookup(sightline.MustParseName(name))
	require.True(t, res.IsFound(), "%s not found in %s", name, src.Name())
	return res.Property
}

func TestNew_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `server:
  port: 8080
  host: localhost
database:
  credentials:
    user: admin
features:
  - feature1
  - feature2
labels:
  app.kubernetes.io/name: web
empty:
`)

	src, err := New(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "file:config.yaml", src.Name())

	port := lookup(t, src, "SERVER_PORT")
	assert.Equal(t, 8080, port.Value)
	assert.Equal(t, "server.port", port.RawKey)
	assert.Equal(t, sightline.TextOrigin{Resource: path, Line: 2, Column: 9}, port.Origin)

	assert.Equal(t, "localhost", lookup(t, src, "server.host").Value)
	assert.Equal(t, "admin", lookup(t, src, "database.credentials.user").Value)
	assert.Equal(t, "feature2", lookup(t, src, "features[1]").Value)
	assert.Equal(t, "feature1", lookup(t, src, "FEATURES_0").Value)
	assert.Equal(t, "web", lookup(t, src, "labels[app.kubernetes.io/name]").Value)
	assert.Nil(t, lookup(t, src, "empty").Value)

	feature := lookup(t, src, "features[0]")
	assert.Equal(t, sightline.TextOrigin{Resource: path, Line: 8, Column: 5}, feature.Origin)
}

func TestNew_YAMLMergeKeys(t *testing.T) {
	path := writeFile(t, "merge.yaml", `base: &base
  timeout: 5
  retries: 3
service:
  <<: *base
  timeout: 10
`)

	src, err := New(path, Options{})
	require.NoError(t, err)

	timeout := lookup(t, src, "service.timeout")
	assert.Equal(t, 10, timeout.Value, "explicit keys win over merged ones")
	assert.Equal(t, 6, timeout.Origin.(sightline.TextOrigin).Line)

	retries := lookup(t, src, "service.retries")
	assert.Equal(t, 3, retries.Value)
	assert.Equal(t, 3, retries.Origin.(sightline.TextOrigin).Line)
}

func TestParse_YAMLSelfReferencingAlias(t *testing.T) {
	tests := map[string]string{
		"alias inside its anchor": "a: &x\n  b: *x\n",
		"merge of own anchor":     "base: &b\n  x: 1\n  <<: *b\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("cyc.yaml", FormatYAML, []byte(content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "refers to itself")
		})
	}
}

func TestParse_YAMLAliasExpansionLimit(t *testing.T) {
	doc := `a: &a ["x", "x", "x", "x", "x", "x", "x", "x", "x", "x"]
b: &b [*a, *a, *a, *a, *a, *a, *a, *a, *a, *a]
c: &c [*b, *b, *b, *b, *b, *b, *b, *b, *b, *b]
d: &d [*c, *c, *c, *c, *c, *c, *c, *c, *c, *c]
e: &e [*d, *d, *d, *d, *d, *d, *d, *d, *d, *d]
f: [*e, *e, *e, *e, *e, *e, *e, *e, *e, *e]
`
	_, err := Parse("laughs.yaml", FormatYAML, []byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many")
}

func TestParse_YAMLSharedAliases(t *testing.T) {
	doc := `defaults: &d
  retries: 3
a:
  policy: *d
b:
  policy: *d
`
	entries, err := Parse("shared.yaml", FormatYAML, []byte(doc))
	require.NoError(t, err)
	src := sightline.NewMapSource("shared", entries)
	assert.Equal(t, 3, lookup(t, src, "a.policy.retries").Value)
	assert.Equal(t, 3, lookup(t, src, "b.policy.retries").Value)
}

func TestNew_YAMLEmptyDocument(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")

	src, err := New(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, src.Len())
}

func TestNew_YAMLInvalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", "server: [unclosed\n")

	_, err := New(path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse YAML file")
}

func TestNew_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "server": {"port": 8080, "ratio": 0.5},
  "tags": ["a", "b"],
  "debug": true
}`)

	src, err := New(path, Options{})
	require.NoError(t, err)

	port := lookup(t, src, "server.port")
	assert.Equal(t, int64(8080), port.Value)
	assert.Equal(t, sightline.TextOrigin{Resource: path}, port.Origin)

	assert.Equal(t, 0.5, lookup(t, src, "server.ratio").Value)
	assert.Equal(t, "b", lookup(t, src, "tags[1]").Value)
	assert.Equal(t, true, lookup(t, src, "debug").Value)
}

func TestNew_JSONInvalid(t *testing.T) {
	path := writeFile(t, "config.json", `{"server": `)

	_, err := New(path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse JSON file")
}

func TestNew_TOML(t *testing.T) {
	path := writeFile(t, "config.toml", `title = "demo"

[server]
port = 8080
host = "localhost"

[[servers]]
host = "a"

[[servers]]
host = "b"
`)

	src, err := New(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, "demo", lookup(t, src, "title").Value)
	assert.Equal(t, int64(8080), lookup(t, src, "server.port").Value)
	assert.Equal(t, "localhost", lookup(t, src, "server.host").Value)
	assert.Equal(t, "b", lookup(t, src, "servers[1].host").Value)
}

func TestNew_TOMLInvalid(t *testing.T) {
	path := writeFile(t, "config.toml", "[server\nport = 1\n")

	_, err := New(path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse TOML file")
}

func TestNew_Dotenv(t *testing.T) {
	path := writeFile(t, ".env", `# comment
PORT=8080
export HOST="example.com"
  NAME = 'spaced'

EMPTY=
`)

	src, err := New(path, Options{})
	require.NoError(t, err)

	port := lookup(t, src, "port")
	assert.Equal(t, "8080", port.Value)
	assert.Equal(t, sightline.TextOrigin{Resource: path, Line: 2, Column: 6}, port.Origin)

	host := lookup(t, src, "host")
	assert.Equal(t, "example.com", host.Value)
	assert.Equal(t, sightline.TextOrigin{Resource: path, Line: 3, Column: 13}, host.Origin)

	name := lookup(t, src, "name")
	assert.Equal(t, "spaced", name.Value)
	assert.Equal(t, sightline.TextOrigin{Resource: path, Line: 4, Column: 10}, name.Origin)

	assert.Equal(t, "", lookup(t, src, "empty").Value)
}

func TestNew_DotenvInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "missing equals", content: "A=1\nNOEQUALS\n", wantErr: "invalid format at line 2"},
		{name: "empty key", content: "=value\n", wantErr: "empty key at line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "app.env", tt.content)
			_, err := New(path, Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parse env file")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_Properties(t *testing.T) {
	path := writeFile(t, "app.properties", `# comment
! also a comment
db.url=jdbc:postgresql://localhost/app
name: Alice
key value
spaced = padded
flag
`)

	src, err := New(path, Options{})
	require.NoError(t, err)

	url := lookup(t, src, "db.url")
	assert.Equal(t, "jdbc:postgresql://localhost/app", url.Value)
	assert.Equal(t, sightline.TextOrigin{Resource: path, Line: 3, Column: 8}, url.Origin)

	name := lookup(t, src, "name")
	assert.Equal(t, "Alice", name.Value)
	assert.Equal(t, 7, name.Origin.(sightline.TextOrigin).Column)

	key := lookup(t, src, "key")
	assert.Equal(t, "value", key.Value)
	assert.Equal(t, 5, key.Origin.(sightline.TextOrigin).Column)

	spaced := lookup(t, src, "spaced")
	assert.Equal(t, "padded", spaced.Value)
	assert.Equal(t, 10, spaced.Origin.(sightline.TextOrigin).Column)

	assert.Equal(t, "", lookup(t, src, "flag").Value)
}

func TestNew_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	src, err := New(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "file:missing.yaml", src.Name())
	assert.Equal(t, 0, src.Len())

	_, err = New(path, Options{Required: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required config file not found")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_ExplicitFormatAndName(t *testing.T) {
	path := writeFile(t, "settings.conf", "server:\n  port: 1\n")

	src, err := New(path, Options{Format: FormatYAML, Name: "defaults"})
	require.NoError(t, err)
	assert.Equal(t, "defaults", src.Name())
	assert.Equal(t, 1, lookup(t, src, "server.port").Value)
	assert.Equal(t, "defaults", lookup(t, src, "server.port").Source)
}

func TestNew_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "config.ini", "a=1\n")

	_, err := New(path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestInferFormat(t *testing.T) {
	tests := map[string]string{
		"config.yaml":        FormatYAML,
		"config.YML":         FormatYAML,
		"config.json":        FormatJSON,
		"config.toml":        FormatTOML,
		"app.properties":     FormatProperties,
		"prod.env":           FormatDotenv,
		"/srv/.env":          FormatDotenv,
		".env.local":         FormatDotenv,
		"config.ini":         "",
		"no-extension":       "",
		"/etc/app/conf.yaml": FormatYAML,
	}

	for path, want := range tests {
		assert.Equal(t, want, inferFormat(path), path)
	}
}

func TestNew_WithResolver(t *testing.T) {
	yamlPath := writeFile(t, "app.yaml", "server:\n  port: 8080\n  host: localhost\n")
	envPath := writeFile(t, ".env", "SERVER_PORT=9090\n")

	yamlSrc, err := New(yamlPath, Options{})
	require.NoError(t, err)
	envSrc, err := New(envPath, Options{})
	require.NoError(t, err)

	r := sightline.NewResolver(sightline.Sources{envSrc, yamlSrc})

	port, ok := r.Find("server.port")
	require.True(t, ok)
	assert.Equal(t, "9090", port.Value)
	assert.Equal(t, "file:.env", port.Source)

	origin, ok := r.OriginOf("serverHost")
	require.True(t, ok)
	assert.Equal(t, yamlPath+":3:9", origin.String())
}

func TestNew_PropertiesContinuationAndEscapes(t *testing.T) {
	path := writeFile(t, "app.properties", `multi=first \
      second \
      third
escaped=a\=b\:c \u0041\tz
win.path=C:\\
after=1
`)

	src, err := New(path, Options{})
	require.NoError(t, err)
	require.Equal(t, 4, src.Len(), "continued lines must not become keys")

	multi := lookup(t, src, "multi")
	assert.Equal(t, "first second third", multi.Value)
	assert.Equal(t, sightline.TextOrigin{Resource: path, Line: 1, Column: 7}, multi.Origin)

	assert.Equal(t, "a=b:c A\tz", lookup(t, src, "escaped").Value)
	assert.Equal(t, `C:\`, lookup(t, src, "win.path").Value)

	after := lookup(t, src, "after")
	assert.Equal(t, "1", after.Value)
	assert.Equal(t, 6, after.Origin.(sightline.TextOrigin).Line)
}
