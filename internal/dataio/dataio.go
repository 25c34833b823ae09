// Package dataio reads and writes the YAML, JSON and JSONC documents consumed by the renderer.
package dataio

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a document on disk.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from the file extension. Anything that is not
// .json or .jsonc is read as YAML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// ReadFile opens path, reads it fully and closes it before returning.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes data into out. JSON input may carry comments and trailing
// commas; it is bridged through YAML so custom YAML decoders on out apply to
// both formats.
func Unmarshal(data []byte, format Format, out interface{}) error {
	if format == FormatJSON {
		bridged, err := jsonToYAML(data)
		if err != nil {
			return &DecodeError{Format: string(FormatJSON), Cause: err}
		}
		data = bridged
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &DecodeError{Format: string(FormatYAML), Cause: err}
	}
	return nil
}

func jsonToYAML(data []byte) ([]byte, error) {
	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	if generic == nil {
		return nil, nil
	}
	return yaml.Marshal(generic)
}

// Load reads path and decodes it according to its extension.
func Load(path string, out interface{}) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := Unmarshal(data, FormatFor(path), out); err != nil {
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			decErr.Path = path
		}
		return err
	}
	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FirstExisting returns the first path that exists, or "".
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		if p != "" && Exists(p) {
			return p
		}
	}
	return ""
}

// Marshal encodes v as indented YAML or JSON.
func Marshal(v interface{}, format Format) ([]byte, error) {
	if format == FormatJSON {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes v according to the extension of path and writes it,
// creating parent directories as needed.
func WriteFile(path string, v interface{}) error {
	data, err := Marshal(v, FormatFor(path))
	if err != nil {
		return &WriteError{Path: path, Cause: err}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: path, Cause: err}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &WriteError{Path: path, Cause: err}
	}
	return nil
}
