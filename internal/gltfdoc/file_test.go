package gltfdoc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

const minimalJSON = `{
  "asset": {"version": "2.0"},
  "nodes": [{"name": "crate", "mesh": 0}],
  "extras": {"keep": [1, 2.5]}
}`

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"scene.gltf", FormatJSON},
		{"scene.JSON", FormatJSON},
		{"scene.yaml", FormatYAML},
		{"scene.yml", FormatYAML},
		{"scene.glb", FormatGLB},
		{"scene", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFromPath(tt.path), tt.path)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestSniffFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, sniffFormat([]byte("  \n{}")))
	assert.Equal(t, FormatYAML, sniffFormat([]byte("asset:\n  version: '2.0'\n")))
	assert.Equal(t, FormatGLB, sniffFormat(writeGLB([]byte("{}"), nil)))
}

func TestParseJSONKeepsNumbers(t *testing.T) {
	f, err := Parse([]byte(minimalJSON), FormatJSON)
	require.NoError(t, err)

	extras := f.Root["extras"].(wire.Object)
	assert.Equal(t, []any{json.Number("1"), json.Number("2.5")}, extras["keep"])

	out, err := f.Encode(FormatJSON, 0)
	require.NoError(t, err)
	assert.JSONEq(t, minimalJSON, string(out))
}

func TestParseRejectsVersion(t *testing.T) {
	_, err := Parse([]byte(`{"asset": {"version": "1.0"}}`), FormatJSON)
	assert.ErrorIs(t, err, errUnsupportedVersion)

	_, err = Parse([]byte(`null`), FormatJSON)
	assert.ErrorIs(t, err, wire.ErrSchemaViolation)

	_, err = Parse([]byte(`{"nodes": [`), FormatJSON)
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	src := `
asset:
  version: "2.0"
nodes:
  - name: crate
    extensions:
      KHR_physics_rigid_bodies:
        motion:
          mass: 2
`
	f, err := Parse([]byte(src), FormatYAML)
	require.NoError(t, err)
	require.Len(t, f.nodes(), 1)

	node := f.nodes()[0].(wire.Object)
	assert.Equal(t, "crate", node["name"])
}

func TestJSONToYAMLWritesPlainNumbers(t *testing.T) {
	f, err := Parse([]byte(minimalJSON), FormatJSON)
	require.NoError(t, err)

	out, err := f.Encode(FormatYAML, 2)
	require.NoError(t, err)
	assert.Contains(t, string(out), "- 1\n")
	assert.Contains(t, string(out), "- 2.5\n")

	back, err := Parse(out, FormatYAML)
	require.NoError(t, err)
	keep := back.Root["extras"].(wire.Object)["keep"].([]any)
	assert.Equal(t, []any{1, 2.5}, keep)
}

func TestLoadAndWrite(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scene.gltf")
	require.NoError(t, os.WriteFile(in, []byte(minimalJSON), 0644))

	f, err := Load(in)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f.Format)

	out := filepath.Join(dir, "scene.out")
	require.NoError(t, f.Write(out, "", 2))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, minimalJSON, string(data))

	// No extension: sniffed from content.
	g, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, g.Format)

	_, err = Load(filepath.Join(dir, "missing.gltf"))
	assert.Error(t, err)
}

func TestGLBRoundTrip(t *testing.T) {
	bin := []byte{1, 2, 3, 4, 5}
	f := &File{Root: wire.Object{"asset": wire.Object{"version": "2.0"}}, Format: FormatGLB, Binary: bin}

	data, err := f.Encode("", 0)
	require.NoError(t, err)
	assert.Zero(t, len(data)%4)

	g, err := Parse(data, FormatGLB)
	require.NoError(t, err)
	assert.Equal(t, FormatGLB, g.Format)
	assert.Equal(t, wire.Object{"asset": wire.Object{"version": "2.0"}}, g.Root)
	// BIN chunk comes back zero padded.
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 0, 0, 0}, g.Binary)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, bin, "source chunk is not modified")
}

func TestReadGLBErrors(t *testing.T) {
	_, _, err := readGLB([]byte{1, 2})
	assert.Error(t, err)

	bad := writeGLB([]byte("{}"), nil)
	bad[0] = 'x'
	_, _, err = readGLB(bad)
	assert.ErrorIs(t, err, errInvalidGLBMagic)

	header := writeGLB([]byte("{}"), nil)[:glbHeaderLen]
	_, _, err = readGLB(header)
	assert.ErrorIs(t, err, errMissingJSONChunk)
}
