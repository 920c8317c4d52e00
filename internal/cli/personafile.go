package cli

import (
	"fmt"
	"os"

	"github.com/stoewer/go-strcase"
	yaml "gopkg.in/yaml.v3"

	"github.com/promptdial/promptdial/pkg/models"
)

// readPersonaFile loads a persona from YAML or JSON. Keys may be written in
// camelCase, snake_case or kebab-case; they are normalized to the camelCase
// names the API uses before decoding.
func readPersonaFile(path string) (*models.Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}
	return parsePersona(data)
}

func parsePersona(data []byte) (*models.Persona, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse persona: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("persona file is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("persona must be a mapping, got %s", nodeKind(root))
	}
	for i := 0; i < len(root.Content); i += 2 {
		key := root.Content[i]
		key.Value = strcase.LowerCamelCase(key.Value)
	}

	var p models.Persona
	if err := root.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode persona: %w", err)
	}
	return &p, nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		return "a scalar"
	}
	return "an unsupported node"
}
