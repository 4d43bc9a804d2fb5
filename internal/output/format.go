// Package output renders CLI results as YAML or JSON.
package output

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	// YAML is the default human-oriented encoding.
	YAML Format = "yaml"
	// JSON matches the wire shape consumed by external collaborators.
	JSON Format = "json"
)

// Parse validates a format name.
func Parse(s string) (Format, error) {
	switch Format(s) {
	case YAML, JSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want yaml or json)", s)
	}
}

// Marshal encodes v in the given format.
func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case JSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(data, '\n'), nil
	case YAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", f)
	}
}
