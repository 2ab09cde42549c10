package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// decodeList accepts either a bare list or a single-key wrapper object such as
// {"rules": [...]}.
func decodeList[T any](data []byte, format Format, key string) ([]T, error) {
	var items []T

	switch format {
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		if len(node.Content) == 0 {
			return nil, nil
		}
		root := node.Content[0]
		if root.Kind == yaml.MappingNode {
			var wrapped map[string][]T
			if err := root.Decode(&wrapped); err != nil {
				return nil, fmt.Errorf("decode yaml %s: %w", key, err)
			}
			return wrapped[key], nil
		}
		if err := root.Decode(&items); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return items, nil
	default:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return nil, nil
		}
		if trimmed[0] == '{' {
			var wrapped map[string][]T
			if err := json.Unmarshal(trimmed, &wrapped); err != nil {
				return nil, fmt.Errorf("decode json %s: %w", key, err)
			}
			return wrapped[key], nil
		}
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return items, nil
	}
}
