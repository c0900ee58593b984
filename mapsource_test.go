package sightline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSource_Lookup(t *testing.T) {
	src := NewMapSource("mem", []Entry{
		{Key: "server.port", Value: 8080, Origin: TextOrigin{Resource: "app.yaml", Line: 2, Column: 9}},
		{Key: "server.host", Value: "localhost"},
	})

	res := src.Lookup(MustParseName("SERVER_PORT"))
	require.True(t, res.IsFound())
	assert.Equal(t, StatusFound, res.Status)
	assert.Equal(t, 8080, res.Property.Value)
	assert.Equal(t, "server.port", res.Property.RawKey)
	assert.Equal(t, "mem", res.Property.Source)
	assert.Equal(t, "app.yaml:2:9", res.Property.Origin.String())

	res = src.Lookup(MustParseName("server.missing"))
	assert.False(t, res.IsFound())
	assert.False(t, res.IsFault())
	assert.Equal(t, StatusAbsent, res.Status)
}

func TestMapSource_FirstEntryWinsOnCollision(t *testing.T) {
	src := NewMapSource("mem", []Entry{
		{Key: "server.port", Value: "first"},
		{Key: "SERVER_PORT", Value: "second"},
	})

	assert.Equal(t, 1, src.Len())
	res := src.Lookup(MustParseName("server-port"))
	require.True(t, res.IsFound())
	assert.Equal(t, "first", res.Property.Value)
}

func TestMapSource_SkipsMalformedKeys(t *testing.T) {
	src := FromMap("mem", map[string]any{
		"ok":     1,
		"bad[":   2,
		"has sp": 3,
	})

	assert.Equal(t, 1, src.Len())
	assert.Equal(t, []string{"bad[", "has sp"}, src.Skipped())
}

func TestMapSource_OriginOf(t *testing.T) {
	src := NewMapSource("mem", []Entry{{Key: "A_B", Value: 1}}, WithDefaultOrigin(func(rawKey string) Origin {
		return KeyOrigin{Source: "mem", Kind: "entry", Key: rawKey}
	}))

	origin, ok := src.OriginOf("A_B")
	require.True(t, ok)
	assert.Equal(t, `entry "A_B"`, origin.String())

	_, ok = src.OriginOf("a.b")
	assert.False(t, ok, "OriginOf is keyed by raw key, not canonical name")
}

func TestMapSource_KeyMapper(t *testing.T) {
	src := FromMap("env", map[string]any{
		"APP_PORT":  "8080",
		"APP_":      "empty",
		"OTHER_VAR": "ignored",
	}, WithKeyMapper(func(key string) (string, bool) {
		rest, ok := strings.CutPrefix(key, "APP_")
		return rest, ok && rest != ""
	}))

	require.Equal(t, 1, src.Len())
	res := src.Lookup(MustParseName("port"))
	require.True(t, res.IsFound())
	assert.Equal(t, "APP_PORT", res.Property.RawKey)
	assert.Empty(t, src.Skipped())
}

func TestMapSource_Names(t *testing.T) {
	src := NewMapSource("mem", []Entry{
		{Key: "b", Value: 1},
		{Key: "a[0]", Value: 2},
	})

	got := src.Names()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].String())
	assert.Equal(t, "a[0]", got[1].String())

	got[0] = Name{}
	assert.Equal(t, "b", src.Names()[0].String())
}

func TestLookupStatus_String(t *testing.T) {
	assert.Equal(t, "found", StatusFound.String())
	assert.Equal(t, "absent", StatusAbsent.String())
	assert.Equal(t, "fault", StatusFault.String())
}
