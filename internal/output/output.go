// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes API documents to files or a stream as indented
// JSON or YAML.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Format selects the serialization written by Write.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml", or "" (JSON).
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q: use json or yaml", s)
}

// FSError is a local filesystem failure while writing output.
type FSError struct {
	Op   string
	Path string
	Err  error
}

func (e *FSError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FSError) Unwrap() error { return e.Err }

// Encode renders a JSON document in the requested format. JSON output is
// indented by two spaces and ends with a newline.
func Encode(raw json.RawMessage, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("formatting JSON: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}
}

// JoinArray builds a JSON array from raw elements. No elements yields [].
func JoinArray(items []json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(it)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// Write encodes raw and writes it to path, creating parent directories. An
// empty path writes to w instead.
func Write(path string, raw json.RawMessage, format Format, w io.Writer) error {
	data, err := Encode(raw, format)
	if err != nil {
		return err
	}
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes data to path, creating parent directories. Failures are
// returned as *FSError.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &FSError{Op: "creating directory", Path: dir, Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &FSError{Op: "writing", Path: path, Err: err}
	}
	return nil
}
