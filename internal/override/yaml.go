package override

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func decodeYAML(data []byte) ([]pair, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top level must be a mapping", root.Line)
	}

	pairs := make([]pair, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: keys must be scalars", keyNode.Line)
		}
		if valueNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %w: %s", valueNode.Line, ErrUnsupportedValue, keyNode.Value)
		}

		// An empty value ("DB_PASSWORD:") is the empty string, not null.
		if valueNode.ShortTag() == "!!null" {
			pairs = append(pairs, pair{key: keyNode.Value, raw: ""})
			continue
		}

		var raw any
		if err := valueNode.Decode(&raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", valueNode.Line, err)
		}
		pairs = append(pairs, pair{key: keyNode.Value, raw: raw})
	}
	return pairs, nil
}
