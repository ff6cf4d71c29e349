package topics

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type topicsFile struct {
	Topics []Topic `yaml:"topics"`
}

// LoadFile reads a YAML (or JSON) topics file. Both a bare list and a
// document with a top-level "topics" key are accepted.
func LoadFile(path string) ([]Topic, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read topics file: %w", err)
	}
	return Parse(data)
}

// Parse decodes topics from YAML or JSON bytes.
func Parse(data []byte) ([]Topic, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode topics: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var list []Topic
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode topics: %w", err)
		}
		return Clean(list), nil
	case yaml.MappingNode:
		var doc topicsFile
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode topics: %w", err)
		}
		return Clean(doc.Topics), nil
	default:
		return nil, fmt.Errorf("decode topics: expected a list or a mapping with \"topics\"")
	}
}

// WriteFile stores topics as YAML under a top-level "topics" key.
func WriteFile(path string, list []Topic) error {
	data, err := yaml.Marshal(topicsFile{Topics: Clean(list)})
	if err != nil {
		return fmt.Errorf("encode topics: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create topics dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write topics file: %w", err)
	}
	return os.Rename(tmp, path)
}
