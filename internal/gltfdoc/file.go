// Package gltfdoc loads whole glTF documents, finds their rigid-body
// extension blocks and writes them back. Documents are kept as generic
// wire.Object trees so unknown glTF content survives a round trip.
package gltfdoc

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/khr-physics/internal/logger"
	"github.com/Faultbox/khr-physics/pkg/wire"
)

// Format is a document container format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatGLB  Format = "glb"
)

var errUnsupportedVersion = errors.New("unsupported glTF version: must be 2.x")

// File is a loaded glTF document.
type File struct {
	Root   wire.Object
	Format Format // format the document was read from
	Binary []byte // GLB BIN chunk, if any
}

// ParseFormat maps a name such as "json" or "yml" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "gltf":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "glb":
		return FormatGLB, nil
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// FormatFromPath picks a format from the file extension. Unknown
// extensions return "".
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".glb":
		return FormatGLB
	}
	return ""
}

// sniffFormat guesses the format of data with no useful extension.
func sniffFormat(data []byte) Format {
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == glbMagic {
		return FormatGLB
	}
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads a glTF document from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	format := FormatFromPath(path)
	if format == "" {
		format = sniffFormat(data)
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("loaded document",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("nodes", len(f.nodes())))
	return f, nil
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*File, error) {
	f := &File{Format: format}
	var err error
	switch format {
	case FormatJSON:
		f.Root, err = decodeJSON(data)
	case FormatYAML:
		f.Root, err = decodeYAML(data)
	case FormatGLB:
		var jsonData []byte
		if jsonData, f.Binary, err = readGLB(data); err == nil {
			f.Root, err = decodeJSON(jsonData)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := checkVersion(f.Root); err != nil {
		return nil, err
	}
	return f, nil
}

func decodeJSON(data []byte) (wire.Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root wire.Object
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: document root is null", wire.ErrSchemaViolation)
	}
	return root, nil
}

func decodeYAML(data []byte) (wire.Object, error) {
	var root wire.Object
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse glTF YAML: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: document is empty", wire.ErrSchemaViolation)
	}
	return root, nil
}

// checkVersion rejects documents that declare a non-2.x asset version.
// Authoring documents without an asset block are accepted.
func checkVersion(root wire.Object) error {
	asset, ok := root["asset"].(wire.Object)
	if !ok {
		return nil
	}
	version, _ := asset["version"].(string)
	if version != "" && !strings.HasPrefix(version, "2.") {
		return errUnsupportedVersion
	}
	return nil
}

// Write encodes the document and writes it to path. An empty format keeps
// the format the document was loaded in.
func (f *File) Write(path string, format Format, indent int) error {
	data, err := f.Encode(format, indent)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	logger.Debug("wrote document", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// Encode serializes the document. Indent is ignored for GLB.
func (f *File) Encode(format Format, indent int) ([]byte, error) {
	if format == "" {
		format = f.Format
	}
	if format == FormatGLB {
		jsonData, err := encodeJSON(f.Root, 0)
		if err != nil {
			return nil, err
		}
		return writeGLB(jsonData, f.Binary), nil
	}
	return EncodeObject(f.Root, format, indent)
}

// EncodeObject serializes a wire tree as JSON or YAML. An indent of 0
// writes compact JSON.
func EncodeObject(obj wire.Object, format Format, indent int) ([]byte, error) {
	switch format {
	case FormatJSON:
		return encodeJSON(obj, indent)
	case FormatYAML:
		return encodeYAML(obj, indent)
	}
	return nil, fmt.Errorf("cannot encode a bare object as %q", format)
}

func encodeJSON(root wire.Object, indent int) ([]byte, error) {
	if indent <= 0 {
		return json.Marshal(root)
	}
	data, err := json.MarshalIndent(root, "", strings.Repeat(" ", indent))
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func encodeYAML(root wire.Object, indent int) ([]byte, error) {
	if indent < 2 {
		indent = 2
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(plainNumbers(root)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// plainNumbers replaces json.Number values so YAML writes them as numbers
// rather than strings.
func plainNumbers(v any) any {
	switch t := v.(type) {
	case wire.Object:
		out := make(wire.Object, len(t))
		for k, e := range t {
			out[k] = plainNumbers(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainNumbers(e)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if fl, err := t.Float64(); err == nil {
			return fl
		}
		return t.String()
	}
	return v
}

// nodes returns the glTF nodes array, or nil.
func (f *File) nodes() []any {
	nodes, _ := f.Root[keyNodes].([]any)
	return nodes
}
