package formatters

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter renders reports as YAML with the same shapes as the JSON formatter
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

func (f *YAMLFormatter) Name() string {
	return "yaml"
}

func (f *YAMLFormatter) Description() string {
	return "YAML output, same structure as JSON"
}

func (f *YAMLFormatter) Format(report *Report, options Options) (string, error) {
	value, err := payload(report, options)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if options.Pretty {
		enc.SetIndent(len(prettyIndent))
	} else {
		enc.SetIndent(2)
	}
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}

	return buf.String(), nil
}
