package dataio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `yaml:"name" json:"name"`
	Count int      `yaml:"count" json:"count"`
	Tags  []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("a/b.JSON"))
	assert.Equal(t, FormatJSON, FormatFor("a/b.jsonc"))
	assert.Equal(t, FormatYAML, FormatFor("a/b.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("a/b"))
}

func TestLoad_YAML(t *testing.T) {
	path := writeTemp(t, "s.yaml", "name: x\ncount: 3\n")
	var s sample
	require.NoError(t, Load(path, &s))
	assert.Equal(t, sample{Name: "x", Count: 3}, s)
}

func TestLoad_JSONWithCommentsAndTrailingCommas(t *testing.T) {
	path := writeTemp(t, "s.json", `{
	// name of the thing
	"name": "x",
	"count": 3,
	"tags": ["a", "b",],
}`)
	var s sample
	require.NoError(t, Load(path, &s))
	assert.Equal(t, sample{Name: "x", Count: 3, Tags: []string{"a", "b"}}, s)
}

func TestLoad_Errors(t *testing.T) {
	var s sample

	err := Load(filepath.Join(t.TempDir(), "missing.yaml"), &s)
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)

	bad := writeTemp(t, "bad.json", `{"name": `)
	err = Load(bad, &s)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, bad, decErr.Path)
	assert.Contains(t, err.Error(), "invalid json")

	badYAML := writeTemp(t, "bad.yaml", "name: [unclosed\n")
	err = Load(badYAML, &s)
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, err.Error(), "invalid yaml")
}

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()
	present := writeTemp(t, "p.yaml", "a: 1\n")
	assert.Equal(t, present, FirstExisting("", filepath.Join(dir, "nope.yaml"), present))
	assert.Equal(t, "", FirstExisting(filepath.Join(dir, "nope.yaml")))
	assert.False(t, Exists(dir))
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := sample{Name: "x", Count: 2, Tags: []string{"t"}}

	for _, name := range []string{"out/s.yaml", "out/s.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, in))
		var back sample
		require.NoError(t, Load(path, &back))
		assert.Equal(t, in, back, name)
	}
}
