package library

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/hpungsan/quip/internal/errors"
)

// Format identifies a library file encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

//go:embed library.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("library.schema.json", schemaJSON)

// FormatForPath picks a format from the file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// ReadFile reads and decodes the library at path.
func ReadFile(path string) (*FolderSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}
	return Decode(data, FormatForPath(path))
}

// Decode parses data in the given format, validates it against the library
// schema and returns the root folder spec. FormatAuto tries TOML, JSON and
// YAML in that order.
func Decode(data []byte, format Format) (*FolderSpec, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	// Normalize every format to JSON so validation and decoding see the
	// same value types.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("normalize library: %v", err))
	}

	var doc any
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("normalize library: %v", err))
	}
	if err := schema.Validate(doc); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("library does not match schema: %v", err)).
			WithDetail("schema_error", err.Error())
	}

	var spec FolderSpec
	if err := json.Unmarshal(normalized, &spec); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("decode library: %v", err))
	}
	return &spec, nil
}

func decodeRaw(data []byte, format Format) (map[string]any, error) {
	raw := map[string]any{}
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return autoDetect(data)
	}
	return raw, nil
}

func autoDetect(data []byte) (map[string]any, error) {
	for _, f := range []Format{FormatTOML, FormatJSON, FormatYAML} {
		if raw, err := decodeRaw(data, f); err == nil && len(raw) > 0 {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("unable to parse library (tried TOML, JSON, YAML)")
}
