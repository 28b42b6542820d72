package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed filetree.yaml
var fileTreeYAML []byte

type fileTreeDoc struct {
	Files []FileNode `yaml:"files"`
}

// loadFileTree parses the embedded in-fiction file tree.
func loadFileTree() ([]FileNode, error) {
	var doc fileTreeDoc
	if err := yaml.Unmarshal(fileTreeYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse file tree: %w", err)
	}
	if len(doc.Files) == 0 {
		return nil, fmt.Errorf("file tree is empty")
	}
	return doc.Files, nil
}
