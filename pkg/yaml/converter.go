package yaml

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// JSONToYAML converts JSON bytes to YAML bytes. Object keys keep the order
// they have in the JSON document.
func JSONToYAML(jsonBytes []byte) ([]byte, error) {
	// JSON is a subset of YAML, so goccy parses it directly; UseOrderedMap keeps key order.
	var obj interface{}
	if err := yaml.UnmarshalWithOptions(jsonBytes, &obj, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	yamlBytes, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("error converting to YAML: %w", err)
	}

	return yamlBytes, nil
}

// UnmarshalYAML parses YAML bytes into the provided object
func UnmarshalYAML(yamlBytes []byte, obj interface{}) error {
	if err := yaml.Unmarshal(yamlBytes, obj); err != nil {
		return fmt.Errorf("error parsing YAML: %w", err)
	}
	return nil
}

// MarshalYAML encodes obj as YAML.
func MarshalYAML(obj interface{}) ([]byte, error) {
	out, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("error encoding YAML: %w", err)
	}
	return out, nil
}

// Validate reports whether text is syntactically valid YAML.
// Flow definitions are checked with it before they are uploaded.
func Validate(text string) error {
	var obj interface{}
	if err := yaml.Unmarshal([]byte(text), &obj); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return nil
}
