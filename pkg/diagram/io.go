package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Diagram Serialization API
// =============================================================================

// Format is an input encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Unmarshal decodes a diagram from JSON bytes.
func Unmarshal(data []byte) (*StructuredDiagram, error) {
	return Decode(bytes.NewReader(data), FormatJSON)
}

// Marshal encodes a diagram as indented JSON.
func Marshal(d *StructuredDiagram) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Decode reads a diagram in the given format. YAML documents are converted
// to their JSON shape first, so both formats share one codec.
func Decode(r io.Reader, format Format) (*StructuredDiagram, error) {
	var d StructuredDiagram
	switch format {
	case FormatYAML:
		var doc any
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &d, nil
}

// ReadFile reads a diagram from a JSON or YAML file.
func ReadFile(path string) (*StructuredDiagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}

// WriteFile writes a diagram to a JSON file.
func WriteFile(d *StructuredDiagram, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
