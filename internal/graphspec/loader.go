package graphspec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromPath reads a graph spec file (YAML or JSON) and returns the
// parsed Spec. Format is detected by extension (.yaml/.yml/.json) or by
// content.
func LoadFromPath(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph spec: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses a graph spec from bytes. ext is the file extension for a
// format hint; empty means detect from content.
func Load(data []byte, ext string) (*Spec, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	switch ext {
	case ".yaml":
		return parseYAML(data)
	case ".json":
		return parseJSON(data)
	}
	// Detect: JSON objects start with '{', everything else is YAML.
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse graph spec yaml: %w", err)
	}
	return &s, nil
}

func parseJSON(data []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse graph spec json: %w", err)
	}
	return &s, nil
}
