package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a schema document from a JSON or YAML file, picking the
// decoder by file extension (.yaml/.yml use YAML, everything else JSON).
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a schema document from JSON.
func ParseJSON(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return s, nil
}

// ParseYAML decodes a schema document from YAML.
func ParseYAML(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return s, nil
}

// Summary returns a human-readable summary of the schema.
func (s *Schema) Summary() string {
	var totalFields int
	for _, t := range s.Tables {
		totalFields += len(t.Fields)
	}
	return fmt.Sprintf("%d tables, %d fields, %d relationships",
		len(s.Tables), totalFields, len(s.Relationships))
}
